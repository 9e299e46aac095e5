package binder

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/suomisf/suomisf/pkg/errcodes"
)

var patternPolicy = bluemonday.StrictPolicy()

// PathID parses a path parameter that must be a positive integer. It fails
// with BAD_REQUEST before any storage is touched.
func PathID(c echo.Context, name string) (int, error) {
	raw := c.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errcodes.InvalidID(raw)
	}
	return id, nil
}

// PathIDs parses several positive integer path parameters in order.
func PathIDs(c echo.Context, names ...string) ([]int, error) {
	ids := make([]int, len(names))
	for i, name := range names {
		id, err := PathID(c, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// PathText returns a path parameter unescaped. The router matches against the
// decoded path unless the request carried escapes that differ from the default
// encoding, in which case the parameter is still escaped.
func PathText(c echo.Context, name string) (string, error) {
	raw := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return raw, nil
	}
	text, err := url.PathUnescape(raw)
	if err != nil {
		return "", errcodes.BadRequest("Virheellinen hakuehto.")
	}
	return text, nil
}

// PathPattern returns a free-text path parameter unescaped, stripped of markup
// and trimmed.
func PathPattern(c echo.Context, name string) (string, error) {
	text, err := PathText(c, name)
	if err != nil {
		return "", err
	}
	return stripMarkup(patternPolicy, text), nil
}
