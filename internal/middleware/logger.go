package middleware

import (
	"log"
	"net/http"
	"time"
)

// statusRecorder captures the status code a handler writes so the logger
// can report it after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logger logs one line per request: method, path, caller, status and how
// long the handler took.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Printf("%s %s from %s -> %d in %s",
			r.Method, r.URL.Path, r.RemoteAddr, rec.status, time.Since(start))
	})
}
