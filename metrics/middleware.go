package metrics

import (
	"net/http"
	"time"
)

// Middleware records every served request into a Store, and optionally onto
// OpenTelemetry instruments. Responses with a 5xx status count as failures.
type Middleware struct {
	store       *Store
	instruments *Instruments
}

// NewMiddleware creates a Middleware writing to store. instruments may be
// nil when no metrics backend is configured.
func NewMiddleware(store *Store, instruments *Instruments) *Middleware {
	return &Middleware{
		store:       store,
		instruments: instruments,
	}
}

// Wrap instruments an HTTP handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		failed := sw.Status() >= http.StatusInternalServerError

		m.store.RecordRequest(duration, failed)
		if m.instruments != nil {
			m.instruments.Record(r.Context(), duration, failed)
		}
	})
}

// statusWriter captures the response status code. A handler that writes a
// body without calling WriteHeader implies 200.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.status = http.StatusOK
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the captured status code, defaulting to 200 when the
// handler never wrote.
func (w *statusWriter) Status() int {
	if !w.wroteHeader {
		return http.StatusOK
	}
	return w.status
}
