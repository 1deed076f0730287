package akixi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNotFound matches every *NotFoundError with errors.Is.
var ErrNotFound = errors.New("report not found")

// AuthenticationError is returned when the server rejects the login.
type AuthenticationError struct {
	StatusCode int
	Reason     string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("akixi login failed: %d %s", e.StatusCode, e.Reason)
}

// NotFoundError is returned when no report in the session has the ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("report %q not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ExecutionError is returned when the server answers a report execution with
// a message instead of results.
type ExecutionError struct {
	ReportID string
	Message  string
}

func (e *ExecutionError) Error() string {
	if e.ReportID == "" {
		return "report execution failed: " + e.Message
	}
	return fmt.Sprintf("report %q execution failed: %s", e.ReportID, e.Message)
}

// APIError is returned when the server answers with an unexpected status.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: akixi API error %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: akixi API error %d: %s", e.Op, e.StatusCode, e.Message)
}

// messageOf returns the top-level Message field of a JSON object body.
func messageOf(body []byte) string {
	return gjson.GetBytes(body, "Message").String()
}

// hasMessage reports whether body is a JSON object with a Message field.
func hasMessage(body []byte) bool {
	parsed := gjson.ParseBytes(body)
	return parsed.IsObject() && parsed.Get("Message").Exists()
}

// isDuplicateSession reports whether a login response body says other
// browser sessions are active for the user.
func isDuplicateSession(body []byte) bool {
	return hasMessage(body) && strings.HasPrefix(messageOf(body), DuplicateSessionPrefix)
}

// apiMessage extracts a readable message from an error response body.
func apiMessage(body []byte) string {
	if hasMessage(body) {
		return messageOf(body)
	}
	return strings.TrimSpace(string(body))
}
