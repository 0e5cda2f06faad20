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

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/account"
	"github.com/trezcool/darasa/core/admin"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/lesson"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		AccountSvc     account.Service
		CourseSvc      course.Service
		LessonSvc      lesson.Service
		AdminSvc       admin.Service
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
	}

	Server struct {
		ServerDeps
		app *echo.Echo

		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		ServerDeps: deps,
		app:        echo.New(),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Server.ReadTimeout = s.Conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = s.Conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.Conf.Debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORS())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator)
	s.app.Debug = s.Conf.Debug

	api := s.app.Group("/api")
	api.GET("/test", home)

	jwt := middleware.JWTWithConfig(newJWTConfig(s.Conf))

	registerAuthAPI(api, jwt, s.Conf, s.AccountSvc, s.Validate)
	registerCourseAPI(api, jwt, s.CourseSvc)
	registerPaymentAPI(api, jwt, s.CourseSvc, s.Validate)
	registerMatchingAPI(api, jwt, s.LessonSvc, s.Validate)
	registerAdminAPI(api, jwt, s.AdminSvc, s.AccountSvc, s.CourseSvc, s.LessonSvc, s.Validate)
}

func (s *Server) Start() {
	if err := s.app.Start(s.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
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
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Backend is working!"})
}
