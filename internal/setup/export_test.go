package setup

import (
	"bytes"
	"context"
	"database/sql"

	"github.com/libretime/libretime-setup/internal/database"
)

// WithConnect overrides how connections are opened.
func WithConnect(connect func(ctx context.Context, cfg database.Config) (*sql.DB, error)) Options {
	return func(o *options) {
		o.connect = connect
	}
}

// WithRunner overrides how external commands are run.
func WithRunner(run func(ctx context.Context, env []string, cmd string, args ...string) (stdout, stderr *bytes.Buffer, err error)) Options {
	return func(o *options) {
		o.run = run
	}
}

// WithMigrate overrides how the migrations directory is applied.
func WithMigrate(migrate func(cfg database.Config, dir string) error) Options {
	return func(o *options) {
		o.migrate = migrate
	}
}

// WriteInstallerConfig exposes writeInstallerConfig for tests.
var WriteInstallerConfig = writeInstallerConfig
