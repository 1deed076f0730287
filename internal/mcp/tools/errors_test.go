package tools

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilde-nya/akixi/pkg/akixi"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var coded *CodedError
	require.True(t, errors.As(err, &coded), "expected CodedError, got %T", err)
	return coded.Code
}

func TestWrapAkixiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"auth", fmt.Errorf("connecting: %w", &akixi.AuthenticationError{StatusCode: 401, Reason: "Unauthorized"}), ErrCodeAuthFailed},
		{"not found", &akixi.NotFoundError{ID: "x"}, ErrCodeNotFound},
		{"execution", &akixi.ExecutionError{ReportID: "r", Message: "Quota exceeded"}, ErrCodeExecutionFailed},
		{"timeout", fmt.Errorf("executing request: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"api", &akixi.APIError{Op: "listing reports", StatusCode: 503}, ErrCodeAkixiError},
		{"other", errors.New("boom"), ErrCodeAkixiError},
		{"already coded", ErrInvalidInput("bad"), ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, codeOf(t, WrapAkixiError(tt.err)))
		})
	}
}

func TestWrapAkixiError_Nil(t *testing.T) {
	assert.NoError(t, WrapAkixiError(nil))
}

func TestWrapAkixiError_ExecutionMessage(t *testing.T) {
	err := WrapAkixiError(&akixi.ExecutionError{ReportID: "r", Message: "Quota exceeded"})
	assert.Equal(t, "EXECUTION_FAILED: Quota exceeded", err.Error())
}
