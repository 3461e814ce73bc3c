package devapi

import (
	"errors"
	"strconv"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/gofiber/fiber/v2"
)

type authResponse struct {
	models.User
	Token string `json:"token"`
}

func (s *Server) register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		CPF      string `json:"cpf"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "requisição inválida")
	}

	u, err := s.state.register(req.Name, req.CPF, req.Password)
	switch {
	case errors.Is(err, errUserExists):
		return respondError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, errInvalidCPF), errors.Is(err, errShortPassword), errors.Is(err, errRequiredFields):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}

	return s.respondAuth(c, fiber.StatusCreated, u)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req struct {
		CPF      string `json:"cpf"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "requisição inválida")
	}

	u, err := s.state.authenticate(req.CPF, req.Password)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, err.Error())
	}

	return s.respondAuth(c, fiber.StatusOK, u)
}

func (s *Server) respondAuth(c *fiber.Ctx, code int, u models.User) error {
	token, err := s.issueToken(u.CPF)
	if err != nil {
		return err
	}
	return respondOK(c, code, authResponse{User: u, Token: token})
}

func (s *Server) listTopics(c *fiber.Ctx) error {
	return respondOK(c, fiber.StatusOK, s.state.listTopics(s.now()))
}

func (s *Server) createTopic(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, errEmptyTopicName.Error())
	}

	t, err := s.state.createTopic(req.Name)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	t.Status = models.StatusAwaitingOpening
	return respondOK(c, fiber.StatusCreated, t)
}

type sessionResponse struct {
	OpenAt  int64 `json:"open_at"`
	CloseAt int64 `json:"close_at"`
}

func (s *Server) openSession(c *fiber.Ctx) error {
	id, err := topicID(c)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	var req struct {
		DurationMinutes int `json:"duration_minutes"`
	}
	if err := c.BodyParser(&req); err != nil {
		req.DurationMinutes = 1
	}

	w, err := s.state.openSession(id, req.DurationMinutes, s.now())
	switch {
	case errors.Is(err, errTopicNotFound):
		return respondError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, errSessionOpen):
		return respondError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		return err
	}

	return respondOK(c, fiber.StatusOK, sessionResponse{OpenAt: w.openAt, CloseAt: w.closeAt})
}

func (s *Server) getSession(c *fiber.Ctx) error {
	id, err := topicID(c)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	w, err := s.state.session(id)
	if err != nil {
		return respondError(c, fiber.StatusNotFound, err.Error())
	}
	return respondOK(c, fiber.StatusOK, sessionResponse{OpenAt: w.openAt, CloseAt: w.closeAt})
}

func (s *Server) vote(c *fiber.Ctx) error {
	id, err := topicID(c)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	var req struct {
		Choice models.Choice `json:"choice"`
	}
	if err := c.BodyParser(&req); err != nil || (req.Choice != models.ChoiceYes && req.Choice != models.ChoiceNo) {
		return respondError(c, fiber.StatusBadRequest, errInvalidChoiceText.Error())
	}

	cpf, _ := c.Locals(localCPF).(string)
	err = s.state.vote(id, cpf, req.Choice, s.now())
	switch {
	case errors.Is(err, errAlreadyVoted):
		return respondError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, errSessionNotFound), errors.Is(err, errSessionNotOpen):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}

	return respondOK(c, fiber.StatusCreated, nil)
}

func (s *Server) result(c *fiber.Ctx) error {
	id, err := topicID(c)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	t, err := s.state.result(id, s.now())
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	return respondOK(c, fiber.StatusOK, t)
}

func topicID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("topic_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("topic_id inválido")
	}
	return id, nil
}
