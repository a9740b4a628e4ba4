package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Client holds the database connection
type Client struct {
	DB     *sqlx.DB
	Driver string
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxOpenConns    int           // Maximum number of open connections
	MaxIdleConns    int           // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum amount of time a connection may be reused
	ConnMaxIdleTime time.Duration // Maximum amount of time a connection may be idle
}

// SSLConfig holds SSL/TLS configuration for database connections
type SSLConfig struct {
	Mode         string // disable, require, verify-ca, verify-full
	CertPath     string // Path to client certificate
	KeyPath      string // Path to client key
	RootCertPath string // Path to root CA certificate
}

// DefaultPoolConfig returns the pool used by the API. The staff dashboard
// and the intake form together rarely hold more than a handful of connections.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    3,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// BuildConnectionString adds SSL parameters to a PostgreSQL URL.
// A nil config returns the URL unchanged.
func BuildConnectionString(baseURL string, sslCfg *SSLConfig) (string, error) {
	if sslCfg == nil {
		return baseURL, nil
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}

	query := parsedURL.Query()
	params := map[string]string{
		"sslmode":     sslCfg.Mode,
		"sslcert":     sslCfg.CertPath,
		"sslkey":      sslCfg.KeyPath,
		"sslrootcert": sslCfg.RootCertPath,
	}
	for key, value := range params {
		if value != "" {
			query.Set(key, value)
		}
	}
	parsedURL.RawQuery = query.Encode()

	return parsedURL.String(), nil
}

// Open connects to the database, configures the pool and bootstraps the schema.
func Open(ctx context.Context, driver, databaseURL string, poolCfg PoolConfig, sslCfg *SSLConfig) (*Client, error) {
	connStr := databaseURL
	if driver == DriverPostgres {
		var err error
		connStr, err = BuildConnectionString(databaseURL, sslCfg)
		if err != nil {
			return nil, fmt.Errorf("failed building connection string: %w", err)
		}
		if sslCfg != nil && sslCfg.Mode != "" && sslCfg.Mode != "disable" {
			log.Printf("🔒 Database SSL enabled (mode: %s)", sslCfg.Mode)
		}
	}

	db, err := sqlx.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to %s: %w", driver, err)
	}

	db.SetMaxOpenConns(poolCfg.MaxOpenConns)
	db.SetMaxIdleConns(poolCfg.MaxIdleConns)
	db.SetConnMaxLifetime(poolCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(poolCfg.ConnMaxIdleTime)

	log.Printf("✅ Database connection pool configured (max_open: %d, max_idle: %d)",
		poolCfg.MaxOpenConns, poolCfg.MaxIdleConns)

	client := &Client{DB: db, Driver: driver}
	if err := client.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed connecting to %s: %w", driver, err)
	}

	if err := client.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed creating schema resources: %w", err)
	}

	log.Println("✅ Database connected and schema ready")

	return client, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.DB.Close()
}

// Ping checks if the database is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Stats returns database connection pool statistics
func (c *Client) Stats() sql.DBStats {
	return c.DB.Stats()
}
