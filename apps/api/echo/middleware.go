package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/identity"
)

const (
	headerContentLanguage = "Content-Language"
	headerDocumentDir     = "X-Document-Dir"
)

// documentMiddleware reports the language and writing direction of the session on every response,
// as they are once the handler ran.
func documentMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sess, err := getContextSession(ctx)
		if err != nil {
			return err
		}
		ctx.Response().Before(func() {
			doc := sess.Document()
			h := ctx.Response().Header()
			h.Set(headerContentLanguage, string(doc.Language()))
			h.Set(headerDocumentDir, string(doc.Direction()))
		})
		return next(ctx)
	}
}

func capabilityMiddleware(need func(identity.Capabilities) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return err
			}
			if _, ok := sess.Identity(); !ok {
				return errors.Wrap(core.ErrUnauthenticated, "checking capabilities")
			}
			if !need(sess.Capabilities()) {
				return errors.Wrap(core.ErrForbidden, "checking capabilities")
			}
			return next(ctx)
		}
	}
}

func elevatedMiddleware() echo.MiddlewareFunc {
	return capabilityMiddleware(func(c identity.Capabilities) bool { return c.Elevated })
}
