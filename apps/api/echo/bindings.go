package echoapi

import (
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
)

// viewParams returns the first value of each query parameter, trimmed.
func viewParams(ctx echo.Context) map[string]string {
	data := ctx.QueryParams()
	params := make(map[string]string, len(data))
	for key, vals := range data {
		if len(vals) == 0 {
			continue
		}
		params[key] = strings.TrimSpace(vals[0])
	}
	return params
}

// bind decodes the request body into v. Malformed bodies are reported as validation errors.
func bind(ctx echo.Context, v interface{}, what string) error {
	if err := ctx.Bind(v); err != nil {
		return core.NewValidationError(errors.Wrapf(err, "binding to %s", what))
	}
	return nil
}

func readBody(ctx echo.Context, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(ctx.Request().Body, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading body")
	}
	if int64(len(data)) > limit {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "body", Error: "too large"})
	}
	return data, nil
}
