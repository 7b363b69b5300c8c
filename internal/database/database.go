// Package database provides the PostgreSQL connection settings and helpers shared by
// the installer and the migration runner.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// Config holds the configuration for connecting to the PostgreSQL database.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type options struct {
	open func(ctx context.Context, dsn string) (*sql.DB, error)
}

// Options represents an optional function to override Connect default values.
type Options func(*options)

// Connect opens a connection to the database described by cfg and validates it with a ping.
// The returned handle is limited to a single open connection.
func Connect(ctx context.Context, cfg Config, args ...Options) (*sql.DB, error) {
	opts := options{
		open: func(_ context.Context, dsn string) (*sql.DB, error) {
			return sql.Open("pgx", dsn)
		},
	}

	for _, opt := range args {
		opt(&opts)
	}

	db, err := opts.open(ctx, cfg.URI("postgres"))
	if err != nil {
		return nil, fmt.Errorf("unable to open database connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	slog.Debug("Testing database connection", "host", cfg.Host, "port", cfg.Port, "database", cfg.DBName)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	slog.Info("Connected to PostgreSQL database", "host", cfg.Host, "port", cfg.Port, "database", cfg.DBName)
	return db, nil
}

// Close closes the database connection.
//
// If db is nil, it does nothing.
// If the connection does not close within 10 seconds, it returns an error.
func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- db.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		return fmt.Errorf("timeout while closing database, connection may still be open")
	}
}

// URI is a helper method that returns a connection URI for PostgreSQL.
// It does not check the validity of the configuration values.
//
// Security warning: the returned string may include credentials.
func (c Config) URI(scheme string) string {
	host := c.Host
	if c.Port != 0 {
		host = fmt.Sprintf("%s:%d", c.Host, c.Port)
	}

	user := url.User(c.User)
	if c.Password != "" {
		user = url.UserPassword(c.User, c.Password)
	}

	u := &url.URL{
		Scheme: scheme,
		User:   user,
		Host:   host,
		Path:   c.DBName,
	}

	q := u.Query()
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// LogValue hides the password when the configuration is logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", c.Host),
		slog.Int("port", c.Port),
		slog.String("user", c.User),
		slog.String("dbname", c.DBName),
		slog.String("sslmode", c.SSLMode),
	)
}
