package channels

import "fmt"

// ErrorCode classifies channel failures for logging and monitoring.
type ErrorCode string

const (
	// ErrCodeConnection indicates network or connection-related failures.
	ErrCodeConnection ErrorCode = "CONNECTION_ERROR"

	// ErrCodeAuthentication indicates authentication failures.
	ErrCodeAuthentication ErrorCode = "AUTH_ERROR"

	// ErrCodeInvalidInput indicates invalid message or configuration data.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeTimeout indicates an operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

	// ErrCodeConfig indicates a configuration error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"
)

// Error is a structured channel error with a classification code.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrConnection creates a connection error.
func ErrConnection(message string, err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: message, Err: err}
}

// ErrAuthentication creates an authentication error.
func ErrAuthentication(message string, err error) *Error {
	return &Error{Code: ErrCodeAuthentication, Message: message, Err: err}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string, err error) *Error {
	return &Error{Code: ErrCodeInvalidInput, Message: message, Err: err}
}

// ErrTimeout creates a timeout error.
func ErrTimeout(message string, err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: message, Err: err}
}

// ErrInternal creates an internal error.
func ErrInternal(message string, err error) *Error {
	return &Error{Code: ErrCodeInternal, Message: message, Err: err}
}

// ErrConfig creates a configuration error.
func ErrConfig(message string, err error) *Error {
	return &Error{Code: ErrCodeConfig, Message: message, Err: err}
}
