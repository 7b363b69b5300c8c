package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func installMigrateCmd(app *App) error {
	cmd := &cobra.Command{
		Use:   "migrate DIR",
		Short: "Apply migration scripts",
		Long: `Apply the migration scripts of DIR to the database of the legacy configuration.

Scripts follow the golang-migrate naming: <version>_<name>.up.sql.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running migrate command")
			return app.migrateRun(args[0])
		},
	}

	app.cmd.AddCommand(cmd)
	return installLegacyFlags(app, cmd)
}

func (a App) migrateRun(dir string) error {
	s, err := a.loadSettings()
	if err != nil {
		return err
	}

	slog.Info("Applying migrations", "dir", dir, "database", s.Database.Config())
	return a.opts.migrate(s.Database.Config(), dir)
}
