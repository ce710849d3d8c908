package main

import (
	"context"
	"fmt"

	"github.com/esteticaio/api/api"
	"github.com/esteticaio/api/auth"
	"github.com/esteticaio/api/auth/jwt"
	"github.com/esteticaio/api/auth/password"
	"github.com/esteticaio/api/bootstrap"
	"github.com/esteticaio/api/database"
	"github.com/esteticaio/api/logger"
	"github.com/esteticaio/api/observability"
	"github.com/esteticaio/api/server"
	"github.com/esteticaio/api/users"
)

type application = bootstrap.App[*AppConfig]

// services is the business layer built on an open database.
type services struct {
	users *users.Service
	login *auth.LoginService
	authn *auth.Authenticator
}

func newServices(db *database.DB, cfg *AppConfig, log *logger.Logger) (*services, error) {
	tokens, err := jwt.NewService(cfg.Auth.JWT)
	if err != nil {
		return nil, err
	}
	hasher := password.NewHasher(cfg.Auth.Password)

	repo := users.NewRepository(db)
	lookup := users.NewLookup(repo)

	login, err := auth.NewLoginService(lookup, hasher, tokens)
	if err != nil {
		return nil, err
	}
	return &services{
		users: users.NewService(repo, hasher, log),
		login: login,
		authn: auth.NewAuthenticator(tokens, lookup),
	}, nil
}

// newApp creates the application with the database component registered.
// The migrate and create-admin commands use it as is.
func newApp(cfg *AppConfig, opts ...bootstrap.Option) (*application, *database.Component, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	for _, s := range cfg.settings() {
		app.Summary.TrackSetting(s[0], s[1])
	}

	dbc := database.NewComponent(cfg.Database, app.Logger).WithAutoMigrate(users.Models()...)
	if err := app.RegisterComponent(dbc); err != nil {
		return nil, nil, err
	}
	return app, dbc, nil
}

// newServeApp adds tracing, the admin seed and the HTTP server. Routes are
// mounted once the database is open, before the listener is bound.
func newServeApp(ctx context.Context, cfg *AppConfig, opts ...bootstrap.Option) (*application, error) {
	app, dbc, err := newApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	shutdownTracer, err := observability.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	app.OnStop(bootstrap.Hook(shutdownTracer))

	shutdownMeter, err := observability.InitMeter(ctx, cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	app.OnStop(bootstrap.Hook(shutdownMeter))

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyDefaults(cfg.Name, app.HealthCheck)

	sc := server.NewComponent(srv).OnSetup(func(ctx context.Context, s *server.Server) error {
		svc, err := newServices(dbc.DB(), cfg, app.Logger)
		if err != nil {
			return err
		}
		if _, err := svc.users.BootstrapAdmin(ctx, cfg.Admin); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		api.Register(s.GinEngine(), api.NewHandler(svc.login, svc.users), svc.authn)
		return nil
	})
	if err := app.RegisterComponent(sc); err != nil {
		return nil, err
	}
	return app, nil
}
