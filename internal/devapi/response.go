package devapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func respondOK(c *fiber.Ctx, code int, data any) error {
	return c.Status(code).JSON(response{Status: "ok", Data: data})
}

func respondError(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(response{Status: "error", Error: msg})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return respondError(c, code, err.Error())
}
