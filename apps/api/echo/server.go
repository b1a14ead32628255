package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
	"github.com/trezcool/bellplus/core/timer"
	"github.com/trezcool/bellplus/services/metrics"
)

type (
	Deps struct {
		Logger      core.Logger
		ScheduleSvc *schedule.Service
		Metrics     *metrics.Recorder // optional
		Clock       timer.Clock       // optional, real clock by default
	}

	Server interface {
		http.Handler
		Start() error
		Shutdown(ctx context.Context) error
	}

	server struct {
		addr     string
		shutdown chan os.Signal
		conf     *core.Config
		deps     *Deps
		app      *echo.Echo
	}
)

var _ Server = (*server)(nil)

// NewServer sets up the API. shutdown receives a SIGTERM when a handler hits a core.shutdown error.
func NewServer(addr string, shutdown chan os.Signal, conf *core.Config, deps *Deps) Server {
	if deps.Logger == nil {
		deps.Logger = core.NopLogger{}
	}
	if deps.Clock == nil {
		deps.Clock = timer.RealClock
	}
	s := &server{
		addr:     addr,
		shutdown: shutdown,
		conf:     conf,
		deps:     deps,
		app:      echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.conf.Debug
	s.app.Server.ReadTimeout = s.conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = s.conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(requestIDMiddleware)
	if s.deps.Metrics != nil {
		s.app.Use(metricsMiddleware(s.deps.Metrics))
	}
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	registerScheduleAPI(v1, s.deps.ScheduleSvc)
	registerTimerAPI(v1, s.deps, s.conf.ClockFormat)
}

// Start blocks until the server stops; http.ErrServerClosed is returned after a Shutdown.
func (s *server) Start() error {
	return s.app.Start(s.addr)
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) signalShutdown() {
	if s.shutdown == nil {
		return
	}
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.conf.AppName+" API!")
}
