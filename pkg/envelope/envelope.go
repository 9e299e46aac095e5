// Package envelope writes the {"response", "status"} wrapper every API
// endpoint answers with.
package envelope

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type Envelope[T any] struct {
	Response T   `json:"response"`
	Status   int `json:"status"`
}

func New[T any](status int, payload T) Envelope[T] {
	return Envelope[T]{Response: payload, Status: status}
}

// JSON writes payload wrapped in the envelope with the given status.
func JSON[T any](c echo.Context, status int, payload T) error {
	return errors.WithStack(c.JSON(status, New(status, payload)))
}

func OK[T any](c echo.Context, payload T) error {
	return JSON(c, http.StatusOK, payload)
}

func Created[T any](c echo.Context, payload T) error {
	return JSON(c, http.StatusCreated, payload)
}

// List writes a slice, never null.
func List[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return JSON(c, http.StatusOK, items)
}
