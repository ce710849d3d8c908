// Package component defines the lifecycle contract for the API's
// infrastructure pieces (database, HTTP server) and a registry that starts
// them in order, stops them in reverse, and aggregates their health.
package component
