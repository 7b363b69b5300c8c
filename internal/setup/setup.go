// Package setup provisions the PostgreSQL database of the legacy web application.
// It creates the database when needed, loads the schema, and patches the generated
// secrets into the seeded settings.
package setup

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/libretime/libretime-setup/internal/cmdutils"
	"github.com/libretime/libretime-setup/internal/constants"
	"github.com/libretime/libretime-setup/internal/database"
	"github.com/libretime/libretime-setup/internal/migration"
)

const successMessage = "Airtime database was created successfully!"

// DefaultMigrateCommand is the command run once the schema is installed.
var DefaultMigrateCommand = []string{"libretime-api", "migrate"}

// Setup provisions the database described by its Params.
type Setup struct {
	params Params
	opts   options
}

type options struct {
	sqlDir             string
	secretFile         string
	installerConfig    string
	psql               string
	migrateCommand     []string
	migrationsDir      string
	strictSecretWrites bool
	logger             *slog.Logger

	connect func(ctx context.Context, cfg database.Config) (*sql.DB, error)
	run     func(ctx context.Context, env []string, cmd string, args ...string) (stdout, stderr *bytes.Buffer, err error)
	migrate func(cfg database.Config, dir string) error
}

// Options represents an optional function to override Setup default values.
type Options func(*options)

// WithSQLDir sets the directory holding the schema files.
func WithSQLDir(dir string) Options {
	return func(o *options) {
		o.sqlDir = dir
	}
}

// WithSecretFile sets the file holding the generated Icecast password.
func WithSecretFile(path string) Options {
	return func(o *options) {
		o.secretFile = path
	}
}

// WithInstallerConfig sets the configuration file the connection parameters are saved to.
// An empty path skips saving them.
func WithInstallerConfig(path string) Options {
	return func(o *options) {
		o.installerConfig = path
	}
}

// WithPsql loads the schema files statement by statement with the given psql binary,
// instead of one transaction per file through the database driver.
func WithPsql(path string) Options {
	return func(o *options) {
		o.psql = path
	}
}

// WithMigrateCommand sets the command run once the schema is installed.
// An empty command skips the step.
func WithMigrateCommand(command ...string) Options {
	return func(o *options) {
		o.migrateCommand = command
	}
}

// WithMigrationsDir applies the migration scripts in dir once the schema is installed,
// instead of running the migrate command.
func WithMigrationsDir(dir string) Options {
	return func(o *options) {
		o.migrationsDir = dir
	}
}

// WithStrictSecretWrites makes any failed secret write abort the provisioning.
// By default such failures are logged and skipped.
func WithStrictSecretWrites(strict bool) Options {
	return func(o *options) {
		o.strictSecretWrites = strict
	}
}

// WithLogger sets the logger used by Setup.
func WithLogger(l *slog.Logger) Options {
	return func(o *options) {
		o.logger = l
	}
}

// New returns a Setup for the given connection parameters.
func New(params Params, args ...Options) *Setup {
	opts := options{
		sqlDir:          constants.DefaultSQLDir,
		secretFile:      constants.GetSecretPath(),
		installerConfig: constants.GetInstallerConfigPath(),
		migrateCommand:  DefaultMigrateCommand,
		logger:          slog.Default(),

		connect: func(ctx context.Context, cfg database.Config) (*sql.DB, error) {
			return database.Connect(ctx, cfg)
		},
		run:     cmdutils.Run,
		migrate: migration.Up,
	}

	for _, opt := range args {
		opt(&opts)
	}

	return &Setup{
		params: params,
		opts:   opts,
	}
}

// Run provisions the database.
// Any failure is returned as an *Error, and the connection is released on every path.
func (s *Setup) Run(ctx context.Context) (Result, error) {
	r := &run{
		Setup: s,
		log:   s.opts.logger.With("setup_id", uuid.NewString(), "database", s.params.Name),
		state: StateNotConnected,
	}
	defer r.release()

	r.log.Info("Starting database setup", "host", s.params.Host, "user", s.params.User)
	if err := r.execute(ctx); err != nil {
		err.State = r.state
		r.log.Error("Database setup failed", "state", r.state, "message", err.Message, "error", err.Err)
		return Result{}, err
	}

	r.log.Info("Database setup finished")
	return Result{Message: successMessage, Errors: []string{}}, nil
}

// run holds the state of a single provisioning.
type run struct {
	*Setup

	log   *slog.Logger
	db    *sql.DB
	state State
}

func (r *run) execute(ctx context.Context) *Error {
	if err := r.params.validate(); err != nil {
		return err
	}

	if err := writeInstallerConfig(r.opts.installerConfig, r.params); err != nil {
		return newError("Could not save the database settings!", err)
	}

	if err := r.open(ctx, constants.AdminDatabase); err != nil {
		return err
	}
	r.enter(StateConnectedToAdminDB)

	exists, err := r.databaseExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		r.enter(StateDatabaseExists)
	} else {
		if err := r.checkCanCreate(ctx); err != nil {
			return err
		}
		if err := r.createDatabase(ctx); err != nil {
			return err
		}
		r.enter(StateDatabaseCreated)
	}

	if err := r.open(ctx, r.params.Name); err != nil {
		return err
	}
	if err := r.checkSchemaAbsent(ctx); err != nil {
		return err
	}
	r.enter(StateSchemaAbsent)

	if err := r.checkEncoding(ctx); err != nil {
		return err
	}

	if err := r.applySchema(ctx); err != nil {
		return err
	}
	r.enter(StateSchemaInstalled)

	if err := r.patchSecrets(ctx); err != nil {
		return err
	}
	r.enter(StateSecretsPatched)

	r.triggerMigration(ctx)
	r.enter(StateMigrationTriggered)

	return nil
}

func (r *run) enter(s State) {
	r.log.Debug("Database setup state changed", "from", r.state, "to", s)
	r.state = s
}

// open replaces the current connection with one to dbName.
func (r *run) open(ctx context.Context, dbName string) *Error {
	r.release()

	db, err := r.opts.connect(ctx, r.params.config(dbName))
	if err != nil {
		return r.connectionError(err)
	}
	r.db = db
	return nil
}

func (r *run) release() {
	if r.db == nil {
		return
	}
	if err := database.Close(r.db); err != nil {
		r.log.Warn("Could not close database connection", "error", err)
	}
	r.db = nil
}

func (r *run) connectionError(err error) *Error {
	return newError("Couldn't establish a connection to the database! Please check your credentials and try again.",
		err, FieldName, FieldUser, FieldPass)
}
