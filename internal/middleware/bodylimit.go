package middleware

import (
	"net/http"

	"github.com/briefboard/briefboard-server/internal/config"
	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/httputil"
)

// BodyLimit rejects requests whose declared length exceeds max and caps
// streamed bodies at the same bound. A non-positive max falls back to
// config.MaxRequestBodyBytes.
func BodyLimit(max int64) func(http.Handler) http.Handler {
	if max <= 0 {
		max = config.MaxRequestBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > max {
				httputil.WriteError(w, apperrors.PayloadTooLarge(max))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}
