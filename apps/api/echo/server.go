package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/session"
	"github.com/trezcool/classhub/core/view"
)

type Server struct {
	conf       *core.Config
	logger     core.Logger
	sessions   *session.Manager
	router     *view.Router
	validate   *validator.Validate
	translator ut.Translator

	app      *echo.Echo
	shutdown chan os.Signal
	errors   chan error
}

var _ http.Handler = (*Server)(nil)

func NewServer(
	conf *core.Config,
	logger core.Logger,
	sessions *session.Manager,
	router *view.Router,
	validate *validator.Validate,
	translator ut.Translator,
) *Server {
	s := &Server{
		conf:       conf,
		logger:     logger,
		sessions:   sessions,
		router:     router,
		validate:   validate,
		translator: translator,
		app:        echo.New(),
		shutdown:   make(chan os.Signal, 1),
		errors:     make(chan error, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Logger.SetLevel(log.INFO)
	if s.conf.Debug {
		s.app.Logger.SetLevel(log.DEBUG)
	}

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins: s.conf.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
		ExposedHeaders: []string{headerContentLanguage, headerDocumentDir, echo.HeaderContentDisposition},
	}).Handler))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger)
	s.app.Debug = s.conf.Debug

	s.app.GET("/", s.home)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.app.Group("/v1")
	authed := v1.Group("", middleware.JWTWithConfig(s.jwtConfig()), s.sessionMiddleware, documentMiddleware)

	s.registerSessionAPI(v1, authed)
	s.registerViewAPI(authed)
	s.registerItemAPI(authed)
	s.registerTimetableAPI(authed)
	s.registerIdentityAPI(authed)
	s.registerSubjectAPI(authed)
	s.registerStateAPI(authed)
}

// Start blocks until the server stops. Errors are sent to Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.conf.AppName+" API!")
}
