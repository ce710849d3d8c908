package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/esteticaio/api/auth"
	"github.com/esteticaio/api/config"
	"github.com/esteticaio/api/database"
	"github.com/esteticaio/api/observability"
	"github.com/esteticaio/api/server"
	"github.com/esteticaio/api/users"
	"github.com/esteticaio/api/util"
	"github.com/esteticaio/api/version"
)

const serviceName = "estetica-api"

// DefaultSecretKey is the placeholder signing key shipped for local
// development. It is refused outside development.
const DefaultSecretKey = "sua_super_chave_secreta_e_complexa_aqui_nao_usar_em_producao"

// AppConfig is the complete service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Auth     auth.Config                `yaml:"auth" mapstructure:"auth"`
	Database database.Config            `yaml:"database" mapstructure:"database"`
	Server   server.Config              `yaml:"server" mapstructure:"server"`
	Admin    users.AdminConfig          `yaml:"admin" mapstructure:"admin"`
	Tracing  observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics  observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`

	// AccessTokenExpireMinutes sets auth.jwt.access_token_ttl when that is unset.
	AccessTokenExpireMinutes int `yaml:"access_token_expire_minutes" mapstructure:"access_token_expire_minutes"`
}

var (
	errDefaultSecret        = errors.New("the default SECRET_KEY must not be used outside development")
	errDefaultAdminPassword = errors.New("the default admin password must not be used outside development")
	errTokenExpiry          = errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
)

// ApplyDefaults fills unset fields of every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Version == "" {
		c.Version = version.Version
	}
	if c.Auth.JWT.AccessTokenTTL <= 0 && c.AccessTokenExpireMinutes > 0 {
		c.Auth.JWT.AccessTokenTTL = time.Duration(c.AccessTokenExpireMinutes) * time.Minute
	}
	c.Auth.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Admin.ApplyDefaults()

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Tracing.ServiceVersion == "" {
		c.Tracing.ServiceVersion = c.Version
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Environment
	}
	c.Tracing.ApplyDefaults()

	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Name
	}
	if c.Metrics.ServiceVersion == "" {
		c.Metrics.ServiceVersion = c.Version
	}
	if c.Metrics.Environment == "" {
		c.Metrics.Environment = c.Environment
	}
	c.Metrics.ApplyDefaults()
}

// Validate checks every section and refuses the shipped placeholder
// credentials outside development.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("%w, got %d", errTokenExpiry, c.AccessTokenExpireMinutes)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Admin.Validate(); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	return c.checkInsecureDefaults()
}

func (c *AppConfig) checkInsecureDefaults() error {
	if c.IsDevelopment() {
		return nil
	}
	var errs []error
	if c.Auth.JWT.Secret == DefaultSecretKey {
		errs = append(errs, errDefaultSecret)
	}
	if c.Admin.UsesDefaultPassword() {
		errs = append(errs, errDefaultAdminPassword)
	}
	return errors.Join(errs...)
}

// settings returns the startup summary lines with secrets masked.
func (c *AppConfig) settings() [][2]string {
	return [][2]string{
		{"environment", c.Environment},
		{"auth", c.Auth.Describe() + " secret=" + util.MaskSecret(c.Auth.JWT.Secret, 4)},
		{"database", c.Database.Driver + " " + c.Database.Address()},
		{"admin", c.Admin.Email},
		{"tracing", exportSetting(c.Tracing.Endpoint)},
		{"metrics", exportSetting(c.Metrics.Endpoint)},
	}
}

func exportSetting(endpoint string) string {
	if endpoint == "" {
		return "disabled"
	}
	return endpoint
}

// defaults are the values used when neither a config file nor the
// environment sets a key.
func defaults() map[string]any {
	return map[string]any{
		"name":                        serviceName,
		"environment":                 config.EnvDevelopment,
		"version":                     version.Version,
		"logging.level":               "info",
		"logging.format":              "console",
		"auth.jwt.secret":             DefaultSecretKey,
		"auth.jwt.algorithm":          "HS256",
		"auth.password.algorithm":     "bcrypt",
		"access_token_expire_minutes": 30,
		"database.driver":             database.DriverMySQL,
		"database.dsn":                "",
		"database.user":               "estetica_user",
		"database.password":           "sua_senha_segura",
		"database.host":               "localhost",
		"database.port":               3306,
		"database.name":               "estetica_io",
		"database.auto_migrate":       true,
		"server.host":                 "0.0.0.0",
		"server.port":                 8000,
		"admin.email":                 users.DefaultAdminEmail,
		"admin.name":                  users.DefaultAdminName,
		"admin.password":              users.DefaultAdminPassword,
		"tracing.endpoint":            "",
		"tracing.insecure":            true,
		"metrics.endpoint":            "",
		"metrics.insecure":            true,
		"metrics.interval":            "15s",
	}
}

// envBindings maps config keys to the environment variables the service
// has always read. The derived name (e.g. AUTH_JWT_SECRET) wins over them.
func envBindings() map[string][]string {
	return map[string][]string{
		"environment":                 {"APP_ENV"},
		"logging.level":               {"LOG_LEVEL"},
		"logging.format":              {"LOG_FORMAT"},
		"auth.jwt.secret":             {"SECRET_KEY"},
		"auth.jwt.algorithm":          {"ALGORITHM"},
		"access_token_expire_minutes": {"ACCESS_TOKEN_EXPIRE_MINUTES"},
		"database.driver":             {"DB_DRIVER"},
		"database.dsn":                {"DATABASE_URL"},
		"database.user":               {"MYSQL_USER"},
		"database.password":           {"MYSQL_PASSWORD"},
		"database.host":               {"MYSQL_HOST"},
		"database.port":               {"MYSQL_PORT"},
		"database.name":               {"MYSQL_DATABASE"},
		"server.host":                 {"HTTP_HOST"},
		"server.port":                 {"HTTP_PORT"},
		"admin.email":                 {"ADMIN_EMAIL"},
		"admin.name":                  {"ADMIN_NAME"},
		"admin.password":              {"ADMIN_PASSWORD"},
		"tracing.endpoint":            {"OTEL_EXPORTER_OTLP_ENDPOINT"},
		"metrics.endpoint":            {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	}
}

// loadConfig reads configuration from defaults, an optional YAML file, an
// optional .env file and the environment.
func loadConfig(configFile, envFile string, opts ...config.LoaderOption) (*AppConfig, error) {
	opts = append([]config.LoaderOption{
		config.WithDefaults(defaults()),
		config.WithBindings(envBindings()),
		config.WithConfigFile(configFile),
		config.WithEnvFile(envFile),
	}, opts...)

	var cfg AppConfig
	if err := config.Load(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
