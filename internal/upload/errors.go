package upload

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeFileSize       Code = "LIMIT_FILE_SIZE"
	CodeFileCount      Code = "LIMIT_FILE_COUNT"
	CodeUnexpectedFile Code = "LIMIT_UNEXPECTED_FILE"
)

// Error is a limit violation on the upload.
type Error struct {
	Code  Code
	Field string
}

func (e *Error) Error() string {
	var msg string
	switch e.Code {
	case CodeFileSize:
		msg = "file too large"
	case CodeFileCount:
		msg = "too many files"
	case CodeUnexpectedFile:
		msg = "unexpected field"
	default:
		msg = string(e.Code)
	}
	if e.Field != "" {
		return msg + ": " + e.Field
	}
	return msg
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrMalformed       = errors.New("malformed multipart body")

	ErrFileTooLarge   = &Error{Code: CodeFileSize}
	ErrTooManyFiles   = &Error{Code: CodeFileCount}
	ErrUnexpectedFile = &Error{Code: CodeUnexpectedFile}
)

// StatusCode maps an upload error to an HTTP status.
func StatusCode(err error) int {
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
