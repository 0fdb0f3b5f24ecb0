package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeUnavailable  Code = "DEPENDENCY_UNAVAILABLE"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Metadata describes how a code should be presented and whether a retry can help.
type Metadata struct {
	Retryable   bool
	UserMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Retryable:   false,
		UserMessage: "validation failed",
	},
	CodeUnauthorized: {
		Retryable:   false,
		UserMessage: "session expired, please log in again",
	},
	CodeForbidden: {
		Retryable:   false,
		UserMessage: "access denied",
	},
	CodeNotFound: {
		Retryable:   false,
		UserMessage: "resource not found",
	},
	CodeConflict: {
		Retryable:   false,
		UserMessage: "conflict detected",
	},
	CodeRateLimit: {
		Retryable:   true,
		UserMessage: "too many requests, slow down",
	},
	CodeUnavailable: {
		Retryable:   true,
		UserMessage: "service unavailable, try again shortly",
	},
	CodeInternal: {
		Retryable:   true,
		UserMessage: "something went wrong",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// CodeForStatus maps a remote HTTP status onto the client error taxonomy.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimit
	default:
		if status >= 400 && status < 500 {
			return CodeValidation
		}
		return CodeUnavailable
	}
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// UserMessage returns the most specific text suitable for display: the error's
// own message when present, otherwise the code's canned fallback.
func (e *Error) UserMessage() string {
	if e == nil {
		return MetadataFor(CodeInternal).UserMessage
	}
	if e.message != "" {
		return e.message
	}
	return MetadataFor(e.code).UserMessage
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
