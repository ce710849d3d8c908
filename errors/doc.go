// Package errors provides the unified error type for the clinic API.
// It carries machine-readable codes, HTTP status mapping and retryable
// detection, and renders to the `{"error": {...}}` JSON envelope.
package errors
