package latest

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suomisf/suomisf/pkg/envelope"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

// count parses the :n path parameter. Zero is allowed.
func count(c echo.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 0 {
		return 0, errcodes.BadRequest("Virheellinen määrä: " + c.Param("n") + ".")
	}
	return n, nil
}

func list[T any](op string, fn func(ctx context.Context, n int) ([]T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		n, err := count(c)
		if err != nil {
			return err
		}

		rows, err := fn(ctx, n)
		if err != nil {
			return errcodes.Storage(ctx, op, err)
		}
		return envelope.List(c, rows)
	}
}
