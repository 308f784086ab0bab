package mid

import (
	"context"
	"net/http"
	"time"
)

// APIMetrics defines metrics for API operations.
type APIMetrics interface {
	// ObserveRequestLatency records the latency of API requests.
	ObserveRequestLatency(ctx context.Context, endpoint string, method string, statusCode int, duration time.Duration)

	// IncRequestCount increments the count of requests by endpoint, method and status.
	IncRequestCount(ctx context.Context, endpoint string, method string, statusCode int)

	// TrackConcurrentRequests tracks the number of in-flight requests while f runs.
	TrackConcurrentRequests(ctx context.Context, endpoint string, f func() error) error
}

// MetricsMiddleware creates middleware that records API metrics. Requests are
// labelled by route template rather than raw path.
func MetricsMiddleware(metrics APIMetrics, route RouteFunc) HTTPMiddleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			endpoint := route(r)
			method := r.Method

			sw := &statusWriter{ResponseWriter: w}

			err := metrics.TrackConcurrentRequests(ctx, endpoint, func() error {
				next.ServeHTTP(sw, r)
				return nil
			})
			statusCode := sw.Status()

			metrics.IncRequestCount(ctx, endpoint, method, statusCode)
			metrics.ObserveRequestLatency(ctx, endpoint, method, statusCode, time.Since(start))

			// Only reachable if the metrics backend itself failed before the handler ran.
			if err != nil && sw.status == 0 {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		})
	}
}
