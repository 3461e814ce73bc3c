package common

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of all input validation failures. They are
// raised before any network call is made.
var ErrValidation = errors.New("validation error")

var (
	ErrInvalidCPF      = fmt.Errorf("%w: cpf must contain exactly 11 digits", ErrValidation)
	ErrShortPassword   = fmt.Errorf("%w: password must have at least 6 characters", ErrValidation)
	ErrEmptyName       = fmt.Errorf("%w: name is required", ErrValidation)
	ErrInvalidDuration = fmt.Errorf("%w: duration must be between 1 and 60 minutes", ErrValidation)
	ErrInvalidChoice   = fmt.Errorf("%w: choice must be Sim or Não", ErrValidation)
	ErrInvalidTopicID  = fmt.Errorf("%w: invalid topic id", ErrValidation)
)
