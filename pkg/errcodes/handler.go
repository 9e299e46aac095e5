package errcodes

import (
	"fmt"
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
	golog "github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/database"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Payload is the error body. It shares the shape of the success envelope so
// clients can read "response" and "status" either way.
type Payload struct {
	Response string `json:"response"`
	Status   int    `json:"status"`
	Code     string `json:"code"`
}

// Handle is an Echo error handler that uses HTTP errors accordingly, and any
// generic error will be interpreted as an internal server error.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}

	payload := h.generatePayload(c, err)

	// Internal server errors
	if payload.Status == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error", golog.Data{"path": c.Path()})
	}

	if c.Response().Committed {
		return
	}

	if err := c.JSON(payload.Status, payload); err != nil {
		logger.FromEchoContext(c).Err(errors.WithStack(err)).Error("error handler json error")
	}
}

func (h *Handler) generatePayload(_ echo.Context, err error) Payload {
	code := ""
	msg := ""
	httpCode := http.StatusInternalServerError

	// Echo errors
	var he *echo.HTTPError
	if ok := errors.As(err, &he); ok {
		httpCode = he.Code
		msg = fmt.Sprint(he.Message)
		code = strcase.ToSnake(msg)
	}

	// Custom errors
	var e *Error
	if ok := errors.As(err, &e); ok {
		httpCode = e.HTTPCode
		code = e.Code
		msg = e.Message
	}

	// Storage errors that escaped the services unmapped
	if code == "" {
		switch {
		case database.IsUniqueViolation(err):
			httpCode = http.StatusConflict
			code = "conflict"
			msg = "Tieto on jo olemassa."
		case database.IsConstraintViolation(err):
			httpCode = http.StatusUnprocessableEntity
			code = "constraint_violation"
			msg = "Tietojen eheyssääntöä rikottiin."
		}
	}

	// Internal server errors that aren't Echo errors or custom errors
	if httpCode == http.StatusInternalServerError && msg == "" {
		code = "internal_error"
		msg = "Palvelinvirhe."
	}

	return Payload{
		Response: msg,
		Status:   httpCode,
		Code:     code,
	}
}
