package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/readycheck/internal/platform/telemetry"
)

// Metrics returns middleware that counts incoming requests by method and
// status code. A nil metrics value disables recording.
func Metrics(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if metrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			metrics.ServerRequestTotal.Add(r.Context(), 1, metric.WithAttributes(
				telemetry.AttrHTTPMethod.String(r.Method),
				telemetry.AttrHTTPStatus.Int(rw.statusCode),
			))
		})
	}
}
