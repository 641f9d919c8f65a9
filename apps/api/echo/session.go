package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/i18n"
	"github.com/trezcool/classhub/core/identity"
	"github.com/trezcool/classhub/core/session"
)

func (s *Server) registerSessionAPI(v1 *echo.Group, authed *echo.Group) {
	// no "/sessions" group: its catch-all would put POST /v1/sessions behind the JWT middleware
	v1.POST("/sessions", s.openSession)

	authed.GET("/sessions/me", s.me)
	authed.POST("/sessions/login", s.login)
	authed.POST("/sessions/register", s.register)
	authed.POST("/sessions/logout", s.logout)
	authed.PUT("/sessions/language", s.setLanguage)
	authed.POST("/sessions/reload", s.reload)
	authed.POST("/sessions/nav", s.toggleNav)
}

type (
	OpenSessionRequest struct {
		ClientID string `json:"clientId"`
	}

	LoginRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	LanguageRequest struct {
		Language i18n.Language `json:"language"`
	}

	SessionResponse struct {
		Token        string                `json:"token,omitempty"`
		ID           string                `json:"id"`
		ClientID     string                `json:"clientId"`
		Language     i18n.Language         `json:"language"`
		Dir          i18n.Direction        `json:"dir"`
		View         string                `json:"view"`
		NavOpen      bool                  `json:"navOpen"`
		Identity     *identity.Identity    `json:"user"`
		Capabilities identity.Capabilities `json:"capabilities"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanEmail(lr.Email)
	return validate.Struct(lr)
}

func sessionResponse(sess *session.Session) SessionResponse {
	doc := sess.Document()
	resp := SessionResponse{
		ID:           sess.ID(),
		ClientID:     sess.ClientID(),
		Language:     doc.Language(),
		Dir:          doc.Direction(),
		View:         sess.CurrentView(),
		NavOpen:      sess.NavOpen(),
		Capabilities: sess.Capabilities(),
	}
	if idt, ok := sess.Identity(); ok {
		resp.Identity = &idt
	}
	return resp
}

// Handlers

// openSession starts an anonymous session for the client and loads the remote collections.
// A client without id gets a new one, to be sent back on its next visit.
func (s *Server) openSession(ctx echo.Context) error {
	var data OpenSessionRequest
	if err := bind(ctx, &data, "OpenSessionRequest"); err != nil {
		return err
	}
	clientID := core.CleanString(data.ClientID)
	if clientID == "" {
		clientID = uuid.New().String()
	}

	sess := s.sessions.Open(clientID)
	if err := sess.Reload(ctx.Request().Context()); err != nil {
		s.logger.Warn("initial reload", err, map[string]interface{}{"session": sess.ID()})
	}

	token, err := s.GenerateToken(sess)
	if err != nil {
		s.sessions.Close(sess.ID())
		return errors.Wrap(err, "generating token")
	}
	resp := sessionResponse(sess)
	resp.Token = token
	return ctx.JSON(http.StatusCreated, resp)
}

func (s *Server) me(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sessionResponse(sess))
}

func (s *Server) login(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data LoginRequest
	if err = bind(ctx, &data, "LoginRequest"); err != nil {
		return err
	}
	if err = data.Validate(s.validate); err != nil {
		return core.TranslateValidationErrors(err, s.translator)
	}
	if _, err = sess.Login(ctx.Request().Context(), data.Email); err != nil {
		return errors.Wrap(err, "logging in")
	}
	return ctx.JSON(http.StatusOK, sessionResponse(sess))
}

func (s *Server) register(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data identity.NewIdentity
	if err = bind(ctx, &data, "NewIdentity"); err != nil {
		return err
	}
	if _, err = sess.Register(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "registering")
	}
	return ctx.JSON(http.StatusCreated, sessionResponse(sess))
}

func (s *Server) logout(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	sess.Logout()
	return ctx.JSON(http.StatusOK, sessionResponse(sess))
}

func (s *Server) setLanguage(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data LanguageRequest
	if err = bind(ctx, &data, "LanguageRequest"); err != nil {
		return err
	}
	if err = sess.SetLanguage(data.Language); err != nil {
		return errors.Wrap(err, "setting language")
	}
	return ctx.JSON(http.StatusOK, sessionResponse(sess))
}

func (s *Server) reload(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err = sess.Reload(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "reloading")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) toggleNav(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"navOpen": sess.ToggleNav()})
}
