package setup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// markerTable is only present once the schema has been installed.
const markerTable = "cc_files"

const (
	queryDatabaseExists = `SELECT datname FROM pg_database WHERE datname = $1`
	queryCanCreate      = `SELECT 1 FROM pg_roles WHERE rolname = $1 AND rolcreatedb`
	querySchemaExists   = `SELECT EXISTS (SELECT 1 FROM pg_class WHERE relname = $1)`
	queryEncoding       = `SELECT pg_encoding_to_char(encoding) FROM pg_database WHERE datname = $1`
)

func (r *run) databaseExists(ctx context.Context) (bool, *Error) {
	var name string
	err := r.db.QueryRowContext(ctx, queryDatabaseExists, r.params.Name).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		r.log.Info("Database does not exist yet")
		return false, nil
	}
	if err != nil {
		return false, r.connectionError(fmt.Errorf("could not check if the database exists: %w", err))
	}

	r.log.Info("Database already exists")
	return true, nil
}

func (r *run) checkCanCreate(ctx context.Context) *Error {
	var one int
	err := r.db.QueryRowContext(ctx, queryCanCreate, r.params.User).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return newError(
			fmt.Sprintf("No database %s exists; user '%s' does not have permission to create databases on %s",
				r.params.Name, r.params.User, r.params.Host),
			nil, FieldName, FieldUser, FieldPass)
	}
	if err != nil {
		return r.connectionError(fmt.Errorf("could not check database creation privilege: %w", err))
	}
	return nil
}

func (r *run) createDatabase(ctx context.Context) *Error {
	query := fmt.Sprintf("CREATE DATABASE %s WITH ENCODING 'UNICODE' TEMPLATE template0 OWNER %s",
		pq.QuoteIdentifier(r.params.Name), pq.QuoteIdentifier(r.params.User))

	r.log.Info("Creating database")
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return newError("There was an error creating the database!", err, FieldName)
	}
	return nil
}

func (r *run) checkSchemaAbsent(ctx context.Context) *Error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, querySchemaExists, markerTable).Scan(&exists); err != nil {
		return r.connectionError(fmt.Errorf("could not look for an existing schema: %w", err))
	}
	if exists {
		return newError("Airtime is already installed in this database!", nil)
	}
	return nil
}

func (r *run) checkEncoding(ctx context.Context) *Error {
	var encoding string
	err := r.db.QueryRowContext(ctx, queryEncoding, r.params.Name).Scan(&encoding)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return r.connectionError(fmt.Errorf("could not read the database encoding: %w", err))
	}
	if encoding != "UTF8" {
		return newError("The database was installed with an incorrect encoding type!",
			fmt.Errorf("database encoding is %q", encoding), FieldName)
	}
	return nil
}
