package server

import (
	"net/http"
	"time"

	"github.com/thuanphamchezzi/skydeckai-code/internal/instrumentation"
)

// statusRecorder captures the status code written by the downstream
// handler. Streaming responses never call WriteHeader explicitly, so the
// status defaults to 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush passes through so streaming handlers keep working behind the
// recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// InstrumentationMiddleware wraps an HTTP handler with request metrics:
// counts and durations labelled by method, path, and status, plus an
// active session gauge held for the lifetime of each request.
func InstrumentationMiddleware(metrics *instrumentation.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		metrics.IncrementActiveSessions(r.Context())
		defer metrics.DecrementActiveSessions(r.Context())

		next.ServeHTTP(recorder, r)

		metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}
