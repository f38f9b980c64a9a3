package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"todo-app/app/controllers"
)

// RegisterRoutes sets up all routes for the application.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController) {
	todos := router.PathPrefix("/todos").Subrouter()
	for _, path := range []string{"", "/"} {
		todos.HandleFunc(path, taskController.GetTasks).Methods(http.MethodGet)
		todos.HandleFunc(path, taskController.CreateTask).Methods(http.MethodPost)
	}
	todos.HandleFunc("/{id}", taskController.UpdateTask).Methods(http.MethodPut)
	todos.HandleFunc("/{id}", taskController.DeleteTask).Methods(http.MethodDelete)
}

// Wrap applies the middleware shared by every route: request logging, panic
// recovery and cross-origin access for the given origins.
func Wrap(h http.Handler, logger zerolog.Logger, allowedOrigins []string) http.Handler {
	h = controllers.Recover(h)

	h = handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)

	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("handled request")
	})(h)
	h = hlog.RequestIDHandler("request_id", "X-Request-Id")(h)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	return hlog.NewHandler(logger)(h)
}
