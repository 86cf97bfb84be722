package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hkaplan/crisispin/config"
	"github.com/hkaplan/crisispin/internal/db"
	"github.com/hkaplan/crisispin/util"
	"github.com/hkaplan/crisispin/util/tracing"
	"github.com/hkaplan/crisispin/util/values"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp.Data)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

// ServerResponse carries the status code and the exact JSON body a handler
// wants on the wire. Data is marshaled as-is, nothing is wrapped around it.
type ServerResponse struct {
	StatusCode int
	Data       interface{}
}

type errorBody struct {
	Error string `json:"error"`
}

type fieldErrorBody struct {
	Errors []util.FieldError `json:"errors"`
}

type API struct {
	Server *http.Server
	Config *config.Config
	DB     db.Querier
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Compress(5))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{api.Config.CorsOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", values.HeaderRequestID},
	}))
	mux.Use(RequestTracing)

	mux.Mount("/api", api.PinRoutes())

	// Everything unrouted falls through to the client entry page.
	mux.NotFound(api.ServeClient)

	return mux
}

// ServeClient serves files out of the configured public directory and falls
// back to index.html for any path that is not a file, the usual single page
// app convention.
func (api *API) ServeClient(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(api.Config.PublicDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}
	http.ServeFile(w, r, filepath.Join(api.Config.PublicDir, "index.html"))
}

func (a *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	return a.Server.Shutdown(ctx)
}

func requestTracing(r *http.Request) tracing.Context {
	if tc, ok := r.Context().Value(values.ContextTracingKey).(tracing.Context); ok {
		return tc
	}
	return tracing.Context{}
}

func respondWithError(err error, message, status string, tc *tracing.Context) *ServerResponse {
	log.WithField("request_id", tc.RequestID).Errorf("%s: %v", message, err)
	return &ServerResponse{
		StatusCode: util.StatusCode(status),
		Data:       errorBody{Error: message},
	}
}

func respondWithFieldErrors(fields []util.FieldError, tc *tracing.Context) *ServerResponse {
	log.WithField("request_id", tc.RequestID).Errorf("validation failed: %v", fields)
	return &ServerResponse{
		StatusCode: util.StatusCode(values.BadRequestBody),
		Data:       fieldErrorBody{Errors: fields},
	}
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

func writeErrorResponse(w http.ResponseWriter, err error, status, message string) {
	log.Errorf("%s: %v", message, err)
	body, _ := json.Marshal(errorBody{Error: message})
	writeJSONResponse(w, body, util.StatusCode(status))
}
