// Package api implements the Lookup Relay HTTP surface using chi.
package api

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/sikabut/internal/apperr"
)

const allowedMethods = "GET, OPTIONS"

// CORSMiddleware allows any origin to call the relay from a browser.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", allowedMethods)
	writeJSON(w, http.StatusMethodNotAllowed, errorBody(apperr.ErrMethodNotAllowed.Error()))
}

// RecoverJSON turns a panic in a relay handler into the usual JSON error
// body with status 500.
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("panic in handler",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("path", r.URL.Path),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}()
		next.ServeHTTP(w, r)
	})
}
