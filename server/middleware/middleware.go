package middleware

import "net/http"

// Middleware wraps an http.Handler. Server-wide concerns (recovery,
// request IDs, tracing, logging, CORS, body limits) use this type and
// wrap the whole mux; authentication is per-route and uses gin handlers.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware. The first in the list is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
