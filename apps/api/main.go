package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/pkg/errors"

	echoapi "github.com/trezcool/bellplus/apps/api/echo"
	"github.com/trezcool/bellplus/core"
	"github.com/trezcool/bellplus/core/schedule"
	logsvc "github.com/trezcool/bellplus/services/logger"
	"github.com/trezcool/bellplus/services/metrics"
	"github.com/trezcool/bellplus/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("api: %+v", err)
	}
}

func run() error {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()
	if err := conf.Check(); err != nil {
		return errors.Wrap(err, "checking config")
	}
	loc, err := conf.Location()
	if err != nil {
		return err
	}

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	defer logger.Close()

	// set up schedules
	repo, closeRepo, err := storage.OpenRepository(context.Background(), conf)
	if err != nil {
		return errors.Wrap(err, "opening schedules")
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logger.Error("closing schedules", err)
		}
	}()

	recorder := metrics.NewRecorder("bellplus")
	scheduleSvc := schedule.NewService(repo, loc, logger, conf.DefaultAssemblyLetter, recorder)

	invalid, err := scheduleSvc.Check(context.Background())
	if err != nil {
		return errors.Wrap(err, "checking schedules")
	}
	for name, sErr := range invalid {
		logger.Warn(fmt.Sprintf("schedule %q is invalid: %v", name, sErr), sErr)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("scheduleSource").Set(conf.ScheduleSource)
	http.DefaultServeMux.Handle("/metrics", recorder.Handler())

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(conf.Server.Address, shutdown, conf, &echoapi.Deps{
		Logger:      logger,
		ScheduleSvc: scheduleSvc,
		Metrics:     recorder,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}
	return nil
}
