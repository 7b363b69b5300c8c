package commands

import (
	"io"

	"github.com/libretime/libretime-setup/internal/database"
	"github.com/libretime/libretime-setup/internal/setup"
)

// Provisioner is the database setup run by the database command.
type Provisioner = provisioner

// WithNewSetup overrides how the database setup is created.
func WithNewSetup(newSetup func(p setup.Params, args ...setup.Options) Provisioner) Options {
	return func(o *options) {
		o.newSetup = newSetup
	}
}

// WithMigrate overrides how migration scripts are applied.
func WithMigrate(migrate func(cfg database.Config, dir string) error) Options {
	return func(o *options) {
		o.migrate = migrate
	}
}

// SetArgs sets the arguments for the command.
func (a *App) SetArgs(args ...string) {
	a.cmd.SetArgs(args)
}

// SetOutput redirects the output of the commands.
func (a *App) SetOutput(w io.Writer) {
	a.cmd.SetOut(w)
}
