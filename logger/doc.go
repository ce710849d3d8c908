// Package logger provides structured logging for the API using zerolog.
//
// It supports JSON and console output, level configuration from the
// environment, component-scoped loggers, and request-scoped fields that
// travel through context.Context.
//
// # Usage
//
//	log := logger.WithComponent("auth")
//	log.WithContext(ctx).Info("login succeeded", logger.Fields("email", email))
package logger
