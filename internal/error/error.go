// internal/error/error.go

package error

import "fmt"

// AppError is the single failure value surfaced by the login and publish flows.
// Message is what the user sees; Err carries the diagnostic payload and is only
// ever logged.
type AppError struct {
	Type     ErrorType
	Message  string
	Category string
	Err      error
}

type ErrorType int

const (
	MissingInput ErrorType = iota
	SetupIncomplete
	InvalidURL
	FileNotFound
	ConversionEmpty
	AuthFailure
	NetworkFailure
	UnexpectedFailure
)

var typeNames = [...]string{
	MissingInput:      "MissingInput",
	SetupIncomplete:   "SetupIncomplete",
	InvalidURL:        "InvalidURL",
	FileNotFound:      "FileNotFound",
	ConversionEmpty:   "ConversionEmpty",
	AuthFailure:       "AuthFailure",
	NetworkFailure:    "NetworkFailure",
	UnexpectedFailure: "UnexpectedFailure",
}

// DefaultCategory names an unexpected failure nothing more specific describes.
const DefaultCategory = "InternalError"

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
	return typeNames[t]
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Unexpected builds an UnexpectedFailure whose user-facing text names only the
// category; the wrapped error stays in the diagnostic payload.
func Unexpected(category string, err error) *AppError {
	if category == "" {
		category = DefaultCategory
	}
	return &AppError{
		Type:     UnexpectedFailure,
		Message:  fmt.Sprintf("Error: %s. Check the log.", category),
		Category: category,
		Err:      err,
	}
}

// Is reports whether err is an *AppError of the given type.
func Is(err error, errType ErrorType) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == errType
}
