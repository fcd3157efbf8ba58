package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nanotronics/survey-server/app"
	"github.com/nanotronics/survey-server/config"
	"github.com/nanotronics/survey-server/log"
	"github.com/nanotronics/survey-server/ratelimit"
	"github.com/nanotronics/survey-server/routes"
	"github.com/nanotronics/survey-server/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	log.SetLevelName(cfg.LogLevel)
	log.SetFormat(cfg.LogFormat)

	for _, warning := range cfg.Validate() {
		log.Warn("Configuration warning:", warning)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatal("main.storage:", err)
	}
	defer store.Close()

	app := app.App{
		Store:   store,
		Limiter: ratelimit.New(cfg.RateLimitRequests, cfg.Window()),
		Config:  cfg,
	}

	handler := routes.Wire(app)

	log.Infof("%s v%s initialized", config.AppName, config.AppVersion)
	log.Infof("Environment: %s", cfg.Environment)
	log.Infof("Storage: %s", store.Kind())

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-shutdown

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("main.shutdown:", err)
		}
	}()

	log.Info("Listening on " + cfg.Addr())
	return srv.ListenAndServe()
}
