package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kbukum/userauth/errors"
)

// BodySizeLimit caps request bodies at size bytes.
// Requests that declare a larger Content-Length get a 413 with the
// INVALID_INPUT envelope. Other bodies are cut off by http.MaxBytesReader;
// handlers answer the resulting *http.MaxBytesError with the same envelope.
func BodySizeLimit(size int64) Middleware {
	body, _ := json.Marshal(apperrors.BodyTooLarge(size).ToResponse())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write(body)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
