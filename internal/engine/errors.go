package engine

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrDimensionTooSmall = errors.New("image too small for operator window")
)

// ParameterError reports a rejected configuration value.
type ParameterError struct {
	Parameter string
	Value     interface{}
	Reason    string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Parameter, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

func invalid(name string, value interface{}, format string, args ...interface{}) error {
	return &ParameterError{Parameter: name, Value: value, Reason: fmt.Sprintf(format, args...)}
}
