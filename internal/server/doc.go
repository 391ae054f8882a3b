// Package server provides HTTP routing, middleware and lifecycle for the web front end.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /games/{id}"), so a path may
// be registered once per method and path values are available through [http.Request.PathValue].
//
// # Middleware
//
//   - [RequestID] tags every request with an X-Request-ID (reused when the client sent one)
//   - [Logging] writes one access log line per request
//   - [Instrument] records request counts and latencies in [Metrics]
//   - [Gate] applies the session gate from the credential cookie, redirecting before any handler runs
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [MetricsHandler] is one: it serves the Prometheus registry on GET /metrics.
package server
