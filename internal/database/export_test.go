package database

import (
	"context"
	"database/sql"
)

// WithOpen overrides how the database handle is opened.
func WithOpen(open func(ctx context.Context, dsn string) (*sql.DB, error)) Options {
	return func(o *options) {
		o.open = open
	}
}
