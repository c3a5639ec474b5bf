package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
	"github.com/SELab-2/Dwengo-1/core/learning"
	"github.com/SELab-2/Dwengo-1/core/question"
	"github.com/SELab-2/Dwengo-1/core/user"
)

type (
	Deps struct {
		Conf     *core.Config
		Logger   core.Logger
		Validate *validator.Validate
		// Uni resolves the translator of the request's Accept-Language; English is the fallback.
		Uni *ut.UniversalTranslator

		UserSvc              *user.Service
		PasswordResetSvc     *user.PasswordResetService
		LearningSvc          *learning.Service
		ClassSvc             *classroom.ClassService
		StudentSvc           *classroom.StudentService
		AssignmentSvc        *classroom.AssignmentService
		StudentAssignmentSvc *classroom.StudentAssignmentService
		StudentTeamSvc       *classroom.StudentTeamService
		TeacherTeamsSvc      *classroom.TeacherTeamsService
		QuestionSvc          *question.Service
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		app        *echo.Echo
		deps       *Deps
		translator ut.Translator
		errors     chan error
		shutdown   chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps *Deps) Server {
	translator, _ := deps.Uni.GetTranslator("en")
	s := &server{
		app:        echo.New(),
		deps:       deps,
		translator: translator,
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	registerAuthTranslations(deps.Uni)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.GET("/", home)

	api := s.app.Group("/api")
	registerAuthAPI(api, s)
	registerLearningAPI(api, s)
	registerClassAPI(api, s)
	registerStudentAPI(api, s)
	registerAssignmentAPI(api, s)
	registerTeamAPI(api, s)
	registerQuestionAPI(api, s)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Dwengo API!")
}
