package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/libretime/libretime-setup/internal/constants"
	"github.com/libretime/libretime-setup/internal/setup"
	"github.com/spf13/cobra"
)

func installDatabaseCmd(app *App) error {
	c := &app.config.Setup

	cmd := &cobra.Command{
		Use:   "database",
		Short: "Create the database and load its schema",
		Long: `Create the legacy database when it does not exist, load its schema, save the generated
Icecast password in the stream settings and run the API migrations.

The result is printed as JSON, with the fields to correct on failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running database command")
			return app.databaseRun(cmd)
		},
	}

	cmd.Flags().StringVar(&c.DB.Host, "db-host", "", "database host")
	cmd.Flags().StringVar(&c.DB.Name, "db-name", "", "database name")
	cmd.Flags().StringVar(&c.DB.User, "db-user", "", "database user")
	cmd.Flags().StringVar(&c.DB.Password, "db-password", "", "database password")
	cmd.Flags().StringVar(&c.SQLDir, "sql-dir", constants.DefaultSQLDir, "directory holding the schema files")
	cmd.Flags().StringVar(&c.SecretFile, "secret-file", constants.GetSecretPath(), "file holding the generated Icecast password")
	cmd.Flags().StringVar(&c.InstallerConfig, "installer-config", constants.GetInstallerConfigPath(), "configuration file the database settings are saved to")
	cmd.Flags().StringVar(&c.Psql, "psql", "", "load the schema files statement by statement with this psql binary, instead of one transaction per file through the database driver")
	cmd.Flags().StringVar(&c.MigrateCommand, "migrate-command", strings.Join(setup.DefaultMigrateCommand, " "), "command run once the schema is loaded, empty to skip")
	cmd.Flags().StringVar(&c.MigrationsDir, "migrations-dir", "", "apply the migration scripts of this directory instead of running the migrate command")
	cmd.Flags().BoolVar(&c.StrictSecretWrites, "strict-secret-writes", false, "fail when the Icecast password can't be saved")

	for _, name := range []string{"sql-dir", "migrations-dir"} {
		if err := cmd.MarkFlagDirname(name); err != nil {
			return fmt.Errorf("failed to mark %s flag as directory: %w", name, err)
		}
	}
	for _, name := range []string{"secret-file", "installer-config"} {
		if err := cmd.MarkFlagFilename(name); err != nil {
			return fmt.Errorf("failed to mark %s flag as filename: %w", name, err)
		}
	}

	app.cmd.AddCommand(cmd)
	app.flagKeys[cmd] = map[string]string{
		"db.host":            "db-host",
		"db.name":            "db-name",
		"db.user":            "db-user",
		"db.password":        "db-password",
		"sqldir":             "sql-dir",
		"secretfile":         "secret-file",
		"installerconfig":    "installer-config",
		"psql":               "psql",
		"migratecommand":     "migrate-command",
		"migrationsdir":      "migrations-dir",
		"strictsecretwrites": "strict-secret-writes",
	}
	return nil
}

func (a *App) databaseRun(cmd *cobra.Command) error {
	c := a.config.Setup

	p := setup.Params{
		Host:     c.DB.Host,
		Name:     c.DB.Name,
		User:     c.DB.User,
		Password: c.DB.Password,
	}

	s := a.opts.newSetup(p,
		setup.WithSQLDir(c.SQLDir),
		setup.WithSecretFile(c.SecretFile),
		setup.WithInstallerConfig(c.InstallerConfig),
		setup.WithPsql(c.Psql),
		setup.WithMigrateCommand(strings.Fields(c.MigrateCommand)...),
		setup.WithMigrationsDir(c.MigrationsDir),
		setup.WithStrictSecretWrites(c.StrictSecretWrites),
	)

	var out any
	res, err := s.Run(cmd.Context())
	if err != nil {
		var e *setup.Error
		if !errors.As(err, &e) {
			return err
		}
		out = e
	} else {
		out = res
	}

	if encErr := json.NewEncoder(cmd.OutOrStdout()).Encode(out); encErr != nil {
		return fmt.Errorf("could not print result: %v", encErr)
	}
	return err
}
