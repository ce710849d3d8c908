package database

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Supported drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds database connection configuration.
type Config struct {
	// Driver selects the GORM dialector: "mysql" (default) or "sqlite".
	Driver string `mapstructure:"driver"`

	// DSN is the full connection string. When empty for MySQL it is built
	// from the fields below.
	DSN string `mapstructure:"dsn"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`

	// MaxOpenConns sets the maximum number of open connections to the database.
	MaxOpenConns int `mapstructure:"max_open_conns"`

	// MaxIdleConns sets the maximum number of idle connections in the pool.
	MaxIdleConns int `mapstructure:"max_idle_conns"`

	// ConnMaxLifetime is the maximum time a connection may be reused.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	// ConnMaxIdleTime is the maximum time a connection may sit idle.
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`

	// MaxRetries is the number of connection attempts before giving up.
	MaxRetries int `mapstructure:"max_retries"`

	// AutoMigrate controls whether registered models are migrated on Start.
	AutoMigrate bool `mapstructure:"auto_migrate"`

	// SlowQueryThreshold is the duration above which queries are logged as slow.
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`

	// LogLevel is the GORM log level: silent, error, warn or info.
	LogLevel string `mapstructure:"log_level"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverMySQL
	}
	if c.Driver == DriverMySQL {
		if c.Host == "" {
			c.Host = "localhost"
		}
		if c.Port == 0 {
			c.Port = 3306
		}
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = time.Hour
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.SlowQueryThreshold == 0 {
		c.SlowQueryThreshold = 200 * time.Millisecond
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMySQL:
		if c.DSN == "" && (c.User == "" || c.Name == "") {
			return fmt.Errorf("database: mysql requires dsn or user and name")
		}
	case DriverSQLite:
		if c.DSN == "" {
			return fmt.Errorf("database: sqlite requires dsn (file path or :memory:)")
		}
	default:
		return fmt.Errorf("database: unsupported driver %q (use mysql or sqlite)", c.Driver)
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("database: max_idle_conns (%d) must be <= max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	return nil
}

// ConnectionString returns the DSN handed to the driver.
func (c *Config) ConnectionString() string {
	if c.DSN != "" || c.Driver != DriverMySQL {
		return c.DSN
	}
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Address returns a loggable location without credentials.
func (c *Config) Address() string {
	if c.Driver == DriverSQLite {
		return c.DSN
	}
	if c.DSN != "" {
		if mc, err := mysql.ParseDSN(c.DSN); err == nil {
			return mc.Addr + "/" + mc.DBName
		}
		return "(dsn)"
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) + "/" + c.Name
}

func (c *Config) inMemory() bool {
	return c.Driver == DriverSQLite && strings.Contains(c.DSN, ":memory:")
}
