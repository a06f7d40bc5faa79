package api

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

const maxBodyBytes = 1 << 20

// NewRouter serves the route table over net/http
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(requestLogger)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		status, body := renderError(req.Context(), errors.ErrRouteNotFound())
		writeJSON(w, status, body)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		status, body := renderError(req.Context(), errors.ErrMethodNotAllowed(req.Method))
		writeJSON(w, status, body)
	})

	for _, route := range h.Routes() {
		r.Method(route.Method, route.Pattern, serve(route))
	}
	return r
}

func serve(route Route) http.HandlerFunc {
	names := paramNames(route.Pattern)
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
		if err != nil {
			status, payload := renderError(req.Context(), errors.ErrInvalidRequest("Request body too large or unreadable", err))
			writeJSON(w, status, payload)
			return
		}

		params := make(map[string]string, len(names))
		for _, name := range names {
			params[name] = chi.URLParam(req, name)
		}

		status, payload := run(req.Context(), route.Op, &Request{Params: params, Body: body})
		writeJSON(w, status, payload)
	}
}

func paramNames(pattern string) []string {
	var names []string
	for _, seg := range splitPath(pattern) {
		if len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}' {
			names = append(names, seg[1:len(seg)-1])
		}
	}
	return names
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// requestID reuses an incoming X-Request-ID or mints one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range corsHeaders {
			w.Header().Set(k, v)
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logger.Default().WithContext(r.Context()).Info("HTTP request", logger.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": ww.Status(),
			"dur_ms": time.Since(start).Milliseconds(),
		})
	})
}
