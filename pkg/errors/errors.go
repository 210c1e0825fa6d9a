package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	// CodeValidation covers malformed requests and upstream per-line
	// userErrors (sold out, quantity too high).
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeNotFound is a normal outcome for expired or unknown carts.
	CodeNotFound Code = "NOT_FOUND"
	// CodeUpstream covers transport failures, non-2xx responses and
	// malformed payloads from Shopify or the CMS.
	CodeUpstream Code = "UPSTREAM_ERROR"
	// CodeConfiguration means required upstream credentials are missing.
	CodeConfiguration Code = "CONFIGURATION_ERROR"
	CodeInternal      Code = "INTERNAL_ERROR"
)

type Metadata struct {
	HTTPStatus    int
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "validation failed",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeUpstream: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "upstream request failed",
	},
	CodeConfiguration: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "service misconfigured",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "internal server error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
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

// IsNotFound reports whether err carries the not-found code.
func IsNotFound(err error) bool {
	typed := As(err)
	return typed != nil && typed.Code() == CodeNotFound
}
