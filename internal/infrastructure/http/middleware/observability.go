package middleware

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// HTTPMetrics receives request measurements
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, duration time.Duration)
	InFlight() func()
}

// Metrics records request counts and latency by matched route
func Metrics(m HTTPMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			done := m.InFlight()
			defer done()

			wrapped := wrap(w)
			next.ServeHTTP(wrapped, r)

			m.ObserveHTTP(r.Method, routePattern(r), wrapped.statusCode, time.Since(start))
		})
	}
}

// Tracing starts a server span per request, continuing an inbound trace
func Tracing(tracer trace.Tracer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
					attribute.String("user_agent.original", r.UserAgent()),
					attribute.String("request.id", GetRequestID(r.Context())),
				),
			)
			defer span.End()

			wrapped := wrap(w)
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			route := routePattern(r)
			span.SetName(fmt.Sprintf("%s %s", r.Method, route))
			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.response.status_code", wrapped.statusCode),
			)
			if wrapped.statusCode >= 500 {
				span.SetStatus(codes.Error, http.StatusText(wrapped.statusCode))
			}
		})
	}
}
