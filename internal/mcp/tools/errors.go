package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/tilde-nya/akixi/pkg/akixi"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeAuthFailed      = "AUTH_FAILED"
	ErrCodeExecutionFailed = "EXECUTION_FAILED"
	ErrCodeAkixiError      = "AKIXI_ERROR"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeTimeout         = "TIMEOUT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapAkixiError converts an error from the Akixi client to a coded error.
func WrapAkixiError(err error) error {
	if err == nil {
		return nil
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	var (
		authErr *akixi.AuthenticationError
		execErr *akixi.ExecutionError
		apiErr  *akixi.APIError
		netErr  net.Error
	)
	switch {
	case errors.As(err, &authErr):
		coded = &CodedError{Code: ErrCodeAuthFailed, Message: fmt.Sprintf("login rejected with %d %s", authErr.StatusCode, authErr.Reason)}
	case errors.Is(err, akixi.ErrNotFound):
		coded = &CodedError{Code: ErrCodeNotFound, Message: err.Error()}
	case errors.As(err, &execErr):
		coded = &CodedError{Code: ErrCodeExecutionFailed, Message: execErr.Message}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		coded = &CodedError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	case errors.As(err, &apiErr):
		coded = &CodedError{Code: ErrCodeAkixiError, Message: apiErr.Error()}
	default:
		coded = &CodedError{Code: ErrCodeAkixiError, Message: "request failed", Cause: err}
	}

	slog.Warn("akixi API error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)
	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
