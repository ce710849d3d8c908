// Package server runs the HTTP API: a Gin engine behind an h2c handler,
// wrapped in the server-wide middleware chain, managed as a component.
//
// Server-wide middleware (server/middleware) runs in this order:
//
//   - Recovery: panics become 500 JSON errors
//   - RequestID: X-Request-Id propagation into logs
//   - Tracing: one server span per request
//   - RequestLogger: method, path, status and duration
//   - CORS and BodySizeLimit
//
// Routes opt into authentication with middleware.Authenticate and
// middleware.RequireRole.
//
// Probe endpoints (server/endpoint): /health, /alive, /ready and /info.
package server
