package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/classhub/core/view"
)

func (s *Server) registerViewAPI(authed *echo.Group) {
	authed.GET("/views/:name", s.renderView)
	authed.GET("/nav", s.navigation)
}

type (
	ViewResponse struct {
		View  string          `json:"view"`
		Title string          `json:"title"`
		Nav   []view.NavEntry `json:"nav"`
		Data  interface{}     `json:"data"`
	}

	NavResponse struct {
		Open    bool            `json:"open"`
		Entries []view.NavEntry `json:"entries"`
	}
)

var nowFunc = time.Now // mockable

// renderView resolves the named view, switches the session to it and renders it.
// Query parameters are passed to the view.
func (s *Server) renderView(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	caps := sess.Capabilities()
	v := s.router.Resolve(ctx.Param("name"), caps)
	sess.SelectView(v.Name())
	t := sess.Translator()
	vctx := view.Context{
		Store:  sess.Store(),
		T:      t,
		Caps:   caps,
		Now:    nowFunc(),
		Params: viewParams(ctx),
	}
	if idt, ok := sess.Identity(); ok {
		vctx.Viewer = idt
	}

	return ctx.JSON(http.StatusOK, ViewResponse{
		View:  v.Name(),
		Title: t.T(s.router.Label(v.Name())),
		Nav:   s.router.Navigation(caps, t, v.Name()),
		Data:  v.Render(vctx),
	})
}

func (s *Server) navigation(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, NavResponse{
		Open:    sess.NavOpen(),
		Entries: s.router.Navigation(sess.Capabilities(), sess.Translator(), sess.CurrentView()),
	})
}
