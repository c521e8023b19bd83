package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/userauth/logger"
)

// slowRequest marks requests worth flagging in the log.
const slowRequest = 500 * time.Millisecond

// quietPaths are probe endpoints polled by orchestrators; logging them
// would drown the account traffic.
var quietPaths = map[string]bool{
	"/health":      true,
	"/alive":       true,
	"/ready":       true,
	"/favicon.ico": true,
}

// RequestLogger logs one line per request. Server errors log at error level,
// client errors at warn and everything else at debug.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[strings.TrimSuffix(r.URL.Path, "/")] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			took := time.Since(start)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, rw.status,
				logger.FieldDuration, took.Milliseconds(),
				"bytes", rw.bytes,
				"client", r.RemoteAddr,
			)
			if took > slowRequest {
				fields["slow"] = true
			}

			l := log.WithContext(r.Context())
			switch {
			case rw.status >= 500:
				l.Error("Request completed", fields)
			case rw.status >= 400:
				l.Warn("Request completed", fields)
			default:
				l.Debug("Request completed", fields)
			}
		})
	}
}

// recordingWriter remembers the status and body size of a response.
type recordingWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *recordingWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Flush implements http.Flusher for h2c streams.
func (w *recordingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *recordingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
