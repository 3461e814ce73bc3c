package services

import (
	"strings"

	"github.com/dmitrijs2005/gophvote/internal/common"
)

const (
	MinPasswordLen    = 6
	MinSessionMinutes = 1
	MaxSessionMinutes = 60
)

// ValidateCPF accepts exactly 11 digits.
func ValidateCPF(cpf string) error {
	if len(cpf) != 11 {
		return common.ErrInvalidCPF
	}
	for _, r := range cpf {
		if r < '0' || r > '9' {
			return common.ErrInvalidCPF
		}
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return common.ErrShortPassword
	}
	return nil
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return common.ErrEmptyName
	}
	return nil
}

func ValidateDuration(minutes int) error {
	if minutes < MinSessionMinutes || minutes > MaxSessionMinutes {
		return common.ErrInvalidDuration
	}
	return nil
}

func ValidateTopicID(id int64) error {
	if id <= 0 {
		return common.ErrInvalidTopicID
	}
	return nil
}
