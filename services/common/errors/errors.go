package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a failure of a storefront operation.
type Kind string

const (
	// KindTransport is a network failure or a cancelled context.
	KindTransport Kind = "transport"
	// KindUnauthorized is an HTTP 401 from the backend; it forces logout.
	KindUnauthorized Kind = "unauthorized"
	// KindRejected is a business-rule rejection ({success:false} in a 2xx).
	KindRejected Kind = "rejected"
	// KindUpstream is any other non-2xx backend status.
	KindUpstream Kind = "upstream"
	// KindDecode is a body that could not be decoded.
	KindDecode Kind = "decode"
	// KindValidation is a client-side rejection; no request was sent.
	KindValidation Kind = "validation"
	// KindInternal is anything else.
	KindInternal Kind = "internal"
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, so errors.Is(err, ErrUnauthorized) holds for every
// unauthorized error whatever its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Sentinels for errors.Is comparisons. Never mutate them.
var (
	ErrTransport    = New(KindTransport, 0, "Network error", nil)
	ErrUnauthorized = New(KindUnauthorized, http.StatusUnauthorized, "Unauthorized", nil)
	ErrRejected     = New(KindRejected, 0, "Request rejected", nil)
	ErrUpstream     = New(KindUpstream, 0, "Upstream error", nil)
	ErrDecode       = New(KindDecode, 0, "Malformed response", nil)
	ErrValidation   = New(KindValidation, 0, "Validation error", nil)
	ErrInternal     = New(KindInternal, 0, "Internal error", nil)
)

func Transport(err error) *Error {
	return New(KindTransport, 0, "Network error", err)
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return New(KindUnauthorized, http.StatusUnauthorized, message, nil)
}

func Rejected(message string) *Error {
	if message == "" {
		message = "Request rejected"
	}
	return New(KindRejected, 0, message, nil)
}

func Upstream(code int, message string) *Error {
	if message == "" {
		message = http.StatusText(code)
	}
	return New(KindUpstream, code, message, nil)
}

func Decode(err error) *Error {
	return New(KindDecode, 0, "Malformed response", err)
}

func Validation(message string) *Error {
	return New(KindValidation, 0, message, nil)
}

// KindOf returns the Kind of err, KindInternal for foreign errors and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns the user-facing message of err.
func Message(err error) string {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return "Something went wrong"
}

// StatusFor maps an error to the HTTP status the BFF answers with.
func StatusFor(err error) int {
	switch KindOf(err) {
	case "":
		return http.StatusOK
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindRejected:
		return http.StatusConflict
	case KindTransport, KindUpstream, KindDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMiddleware renders the last gin error as the storefront envelope.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		c.AbortWithStatusJSON(StatusFor(err), gin.H{
			"success": false,
			"message": Message(err),
		})
	}
}
