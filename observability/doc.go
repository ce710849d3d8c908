// Package observability wires OpenTelemetry tracing for the API.
//
// Tracing is off unless an OTLP endpoint is configured; spans created
// through StartSpan then go to the global no-op provider.
//
//	shutdown, err := observability.InitTracer(ctx, cfg)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "auth.resolve")
//	defer span.End()
package observability
