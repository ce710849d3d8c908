// Package bootstrap orchestrates the application lifecycle.
//
// It provides typed configuration, component registration, and
// startup/shutdown hooks shared by the serve, migrate and create-admin
// commands.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(dbComponent)
//	app.RegisterComponent(serverComponent)
//	return app.Run(ctx)
//
// Components start in registration order and stop in reverse on SIGINT,
// SIGTERM or context cancellation.
package bootstrap
