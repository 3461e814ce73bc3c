package cli

import (
	"strconv"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/common"
)

func parseTopicID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrInvalidTopicID
	}
	return id, nil
}

func parseMinutes(s string) (int, error) {
	m, err := strconv.Atoi(s)
	if err != nil {
		return 0, common.ErrInvalidDuration
	}
	return m, nil
}

func parseChoice(s string) (models.Choice, error) {
	c, ok := models.ParseChoice(s)
	if !ok {
		return "", common.ErrInvalidChoice
	}
	return c, nil
}
