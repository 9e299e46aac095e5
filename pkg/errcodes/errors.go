package errcodes

import (
	"fmt"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// BadRequest returns a 400 error carrying the given user-facing message.
func BadRequest(msg string) error {
	return &Error{
		http.StatusBadRequest,
		msg,
		"bad_request",
	}
}

// InvalidID returns a 400 error for a path identifier that isn't a positive
// integer.
func InvalidID(value string) error {
	return &Error{
		http.StatusBadRequest,
		fmt.Sprintf("Virheellinen tunniste: %q.", value),
		"bad_request",
	}
}

// Unauthorized returns a 401 error.
func Unauthorized(msg string) error {
	return &Error{
		http.StatusUnauthorized,
		msg,
		"unauthorized",
	}
}

// Forbidden returns a 403 error with a message indicating the action is
// forbidden.
func Forbidden(action string) error {
	return &Error{
		http.StatusForbidden,
		action + " ei ole sallittu.",
		"forbidden",
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " ei löytynyt.",
		"not_found",
	}
}

// Conflict returns a 409 error for a duplicate of a unique value.
func Conflict(resource string) error {
	return &Error{
		http.StatusConflict,
		resource + " on jo olemassa.",
		"conflict",
	}
}

// UnprocessableEntity returns a 422 error for a request that would break a
// data invariant.
func UnprocessableEntity(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"unprocessable_entity",
	}
}

// ConstraintViolation is the 422 raised when the database rejects a write
// that breaks a structural rule.
func ConstraintViolation(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"constraint_violation",
	}
}

// Internal returns a 500 error naming the failed operation.
func Internal(op string) error {
	return &Error{
		http.StatusInternalServerError,
		op + ": Tietokantavirhe.",
		"internal_error",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		http.StatusUnsupportedMediaType,
		"Tuntematon sisältötyyppi.",
		"unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		http.StatusBadRequest,
		fmt.Sprintf("Tuntematon parametri %q.", param),
		"unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusBadRequest,
		msg,
		"validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		http.StatusBadRequest,
		msg,
		"validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		http.StatusBadRequest,
		"Virheellinen JSON-sisältö.",
		"malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		http.StatusBadRequest,
		"Pyynnön sisältö ei voi olla tyhjä.",
		"empty_request_body",
	}
}

// InUse returns a 409 error for an entity that can't be removed while other
// rows still refer to it.
func InUse(msg string) error {
	return &Error{
		http.StatusConflict,
		msg,
		"conflict",
	}
}
