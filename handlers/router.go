package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"todo-api/middlewares"
)

// RouterConfig collects what NewRouter wires together. Uploads, Metrics and
// Tracing are optional.
type RouterConfig struct {
	Todos    *TodoHandler
	Uploads  *UploadHandler
	Auth     *middlewares.Authenticator
	Metrics  *middlewares.Metrics
	Gatherer prometheus.Gatherer
	Tracing  mux.MiddlewareFunc
}

func homeHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "Welcome to the Todo API")
}

func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	if cfg.Tracing != nil {
		r.Use(cfg.Tracing)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.HandleFunc("/", homeHandler).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := r.NewRoute().Subrouter()
	api.Use(cfg.Auth.RequireAuth)
	api.HandleFunc("/todos", cfg.Todos.GetTodos).Methods(http.MethodGet)
	api.HandleFunc("/todos", cfg.Todos.CreateTodo).Methods(http.MethodPost)
	api.HandleFunc("/todos/{todoId}", cfg.Todos.UpdateTodo).Methods(http.MethodPatch)
	api.HandleFunc("/todos/{todoId}", cfg.Todos.DeleteTodo).Methods(http.MethodDelete)
	api.HandleFunc("/todos/{todoId}/attachment", cfg.Todos.GenerateUploadURL).Methods(http.MethodPost)

	if cfg.Uploads != nil {
		r.HandleFunc("/uploads/{attachmentId}", cfg.Uploads.PutAttachment).Methods(http.MethodPut)
		r.HandleFunc("/uploads/{attachmentId}", cfg.Uploads.GetAttachment).Methods(http.MethodGet)
	}

	return r
}
