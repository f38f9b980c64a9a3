package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gorilla/mux"

	"todo-app/app/config"
	"todo-app/app/controllers"
	"todo-app/app/routes"
	"todo-app/app/services"
)

func main() {
	logger := config.DefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("failed to read config")
	}
	logger = config.NewLogger(cfg.Env)

	// Connect to the store before accepting traffic. No retry: the supervisor
	// restarts the process.
	taskStore, err := config.InitStore(context.Background(), cfg.Store)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("driver", cfg.Store.Driver).
			Msg("failed to connect to store")
	}
	logger.Info().
		Str("driver", cfg.Store.Driver).
		Msg("connected to store")

	// Initialize the service layer
	taskService := services.NewTaskService(taskStore, logger)

	// Initialize the controller layer
	taskController := controllers.NewTaskController(taskService, logger)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, taskController)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           routes.Wrap(router, logger, cfg.HTTP.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Msg("server is running")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().
				Err(err).
				Msg("failed to listen and serve http")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.HTTP.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// One operation so the store closes only after requests drained.
			"server": func(ctx context.Context) error {
				logger.Info().Msg("shutting down http server")
				shutdownErr := server.Shutdown(ctx)
				closeErr := taskStore.Close(ctx)
				if closeErr == nil {
					logger.Info().Msg("closed store")
				}
				return errors.Join(shutdownErr, closeErr)
			},
		},
	)

	exitCode := <-wait
	logger.Info().
		Int("exit_code", exitCode).
		Msg("server stopped")
	os.Exit(exitCode)
}
