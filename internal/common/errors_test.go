package common

import (
	"errors"
	"testing"
)

func TestValidationErrorsWrapRoot(t *testing.T) {
	for _, err := range []error{
		ErrInvalidCPF, ErrShortPassword, ErrEmptyName,
		ErrInvalidDuration, ErrInvalidChoice, ErrInvalidTopicID,
	} {
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%v does not wrap ErrValidation", err)
		}
	}
}
