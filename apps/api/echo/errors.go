package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/session"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "session not authenticated")
	errSessionExpired = echo.NewHTTPError(http.StatusUnauthorized, "session expired")

	errLoginFailedText = "no account with this email"
)

// noticeResponse is shown by the front end as a blocking notice.
type noticeResponse struct {
	Error  string `json:"error"`
	Notice bool   `json:"notice"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		var (
			httpErr *echo.HTTPError
			valErr  *core.ValidationError
		)
		switch {
		case errors.As(err, &httpErr):
			if httpErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = httpErr.Message
				break
			}
			if httpErr.Internal != nil {
				if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
					httpErr = herr
				}
			}
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &valErr):
			if valErr.Fields != nil {
				fldErrs := make(map[string]string, len(valErr.Fields))
				for _, fErr := range valErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = valErr.Error()
			}
			code = http.StatusBadRequest
		case isValidatorErr(err):
			code = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, core.ErrUnauthenticated):
			code = http.StatusUnauthorized
			message = core.ErrUnauthenticated.Error()
			if errors.Is(err, session.ErrLoginFailed) {
				message = errLoginFailedText
			}
		case errors.Is(err, core.ErrForbidden):
			code = http.StatusForbidden
			message = core.ErrForbidden.Error()
		case errors.Is(err, core.ErrNotFound):
			code = http.StatusNotFound
			message = core.ErrNotFound.Error()
		case errors.Is(err, core.ErrDuplicateEmail):
			code = http.StatusConflict
			message = noticeResponse{Error: core.ErrDuplicateEmail.Error(), Notice: true}
		case errors.Is(err, session.ErrUploadInProgress):
			code = http.StatusConflict
			message = session.ErrUploadInProgress.Error()
		case core.IsPersistence(err), core.IsUpload(err):
			code = http.StatusBadGateway
			message = noticeResponse{Error: err.Error(), Notice: true}
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			args := []interface{}{errors.Wrap(err, msg)}
			if sess, sErr := getContextSession(ctx); sErr == nil {
				if idt, ok := sess.Identity(); ok {
					args = append(args, idt)
				}
			}
			logger.Error(msg, args...)
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func isValidatorErr(err error) bool {
	_, ok := errors.Cause(err).(validator.ValidationErrors)
	return ok
}
