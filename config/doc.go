// Package config loads service configuration with Viper.
//
// Sources, lowest precedence first: registered defaults, an optional YAML
// file, an optional .env file (loaded into the process environment with
// godotenv, never overriding variables already set), and environment
// variables. Every key is reachable from the environment with dots
// replaced by underscores (auth.jwt.secret -> AUTH_JWT_SECRET); extra
// names can be bound per key with WithBindings.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.Load("estetica-api", &cfg,
//	    config.WithDefaults(map[string]any{"server.port": 8000}),
//	    config.WithBindings(map[string][]string{"auth.jwt.secret": {"SECRET_KEY"}}),
//	)
package config
