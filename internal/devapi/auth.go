package devapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const localCPF = "cpf"

func (s *Server) issueToken(cpf string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"cpf": cpf,
		"exp": s.now().Add(TokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenMalformed
	}
	cpf, ok := claims["cpf"].(string)
	if !ok || cpf == "" {
		return "", jwt.ErrTokenMalformed
	}
	return cpf, nil
}

// authorize requires a valid bearer token and stores the caller's CPF in
// the request locals.
func (s *Server) authorize(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return respondError(c, fiber.StatusUnauthorized, "token ausente")
	}

	cpf, err := s.parseToken(raw)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, "token inválido")
	}

	c.Locals(localCPF, cpf)
	return c.Next()
}
