// Package commands holds the libretime-setup command line interface.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/libretime/libretime-setup/internal/cli"
	"github.com/libretime/libretime-setup/internal/constants"
	"github.com/libretime/libretime-setup/internal/database"
	"github.com/libretime/libretime-setup/internal/migration"
	"github.com/libretime/libretime-setup/internal/setup"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	cmd    *cobra.Command
	viper  *viper.Viper
	config appConfig
	opts   options

	// flagKeys maps the flags of each command to configuration keys, bound when the command runs.
	flagKeys map[*cobra.Command]map[string]string

	ctx    context.Context
	cancel context.CancelFunc
}

// appConfig holds the configuration for the application.
type appConfig struct {
	Verbosity int  `mapstructure:"verbose"`
	JSONLogs  bool `mapstructure:"jsonlogs"`

	Setup  setupConfig  `mapstructure:",squash"`
	Legacy legacyConfig `mapstructure:"legacy"`
}

// setupConfig holds the parameters of the database command.
type setupConfig struct {
	DB                 dbConfig `mapstructure:"db"`
	SQLDir             string   `mapstructure:"sqldir"`
	SecretFile         string   `mapstructure:"secretfile"`
	InstallerConfig    string   `mapstructure:"installerconfig"`
	Psql               string   `mapstructure:"psql"`
	MigrateCommand     string   `mapstructure:"migratecommand"`
	MigrationsDir      string   `mapstructure:"migrationsdir"`
	StrictSecretWrites bool     `mapstructure:"strictsecretwrites"`
}

type dbConfig struct {
	Host     string `mapstructure:"host"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// legacyConfig locates the configuration file of the web application.
type legacyConfig struct {
	File        string `mapstructure:"file"`
	VersionFile string `mapstructure:"versionfile"`
}

type provisioner interface {
	Run(ctx context.Context) (setup.Result, error)
}

type options struct {
	newSetup func(p setup.Params, args ...setup.Options) provisioner
	migrate  func(cfg database.Config, dir string) error
}

// Options represents an optional function to override App default values.
type Options func(*options)

// New registers commands and returns a new App.
func New(args ...Options) (*App, error) {
	opts := options{
		newSetup: func(p setup.Params, args ...setup.Options) provisioner {
			return setup.New(p, args...)
		},
		migrate: migration.Up,
	}
	for _, opt := range args {
		opt(&opts)
	}

	a := App{opts: opts, flagKeys: make(map[*cobra.Command]map[string]string)}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.cmd = &cobra.Command{
		Use:   constants.CmdName,
		Short: "Set up the LibreTime legacy database",
		Long: `Set up the database of the LibreTime legacy web application.

It creates the PostgreSQL database, loads its schema and saves the generated secrets,
and can show the legacy configuration as the web application reads it.`,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Command parsing has been successful. Returns to not print usage anymore.
			a.cmd.SilenceUsage = true
			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs) // Set verbosity before loading config
			if err := a.bindFlags(cmd, a.flagKeys[cmd]); err != nil {
				return err
			}
			if err := cli.InitViperConfig(constants.CmdName, cmd, a.viper); err != nil {
				return err
			}
			if err := a.viper.Unmarshal(&a.config); err != nil {
				return fmt.Errorf("unable to strictly decode configuration into struct: %w", err)
			}
			slog.Debug("Got app config", "verbosity", a.config.Verbosity, "host", a.config.Setup.DB.Host, "legacy", a.config.Legacy.File)

			cli.SetSlog(a.config.Verbosity, a.config.JSONLogs)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Usage()
		},
	}
	a.viper = viper.New()
	a.cmd.CompletionOptions.HiddenDefaultCmd = true

	installRootCmd(&a)
	cli.InstallConfigFlag(a.cmd)

	if err := a.bindFlags(a.cmd, map[string]string{
		"verbose":  "verbose",
		"jsonlogs": "json-logs",
	}); err != nil {
		return nil, err
	}

	if err := installDatabaseCmd(&a); err != nil {
		return nil, err
	}
	if err := installConfigCmd(&a); err != nil {
		return nil, err
	}
	if err := installMigrateCmd(&a); err != nil {
		return nil, err
	}

	return &a, nil
}

func installRootCmd(app *App) {
	cmd := app.cmd

	cmd.PersistentFlags().CountVarP(&app.config.Verbosity, "verbose", "v", "issue INFO (-v), DEBUG (-vv)")
	cmd.PersistentFlags().BoolVar(&app.config.JSONLogs, "json-logs", false, "write logs as JSON")
}

// bindFlags binds each configuration key to the flag of cmd with the given name.
func (a *App) bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.PersistentFlags().Lookup(name)
		}
		if f == nil {
			return fmt.Errorf("no flag %q to bind to %q", name, key)
		}
		if err := a.viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("could not bind flag %q: %w", name, err)
		}
	}
	return nil
}

// Run executes the command and associated process, returning an error if any.
func (a App) Run() error {
	return a.cmd.ExecuteContext(a.ctx)
}

// UsageError returns if the error is a command parsing or runtime one.
func (a App) UsageError() bool {
	return !a.cmd.SilenceUsage
}

// Quit cancels any running operation.
func (a *App) Quit() {
	a.cancel()
}

// RootCmd returns the root command.
func (a App) RootCmd() cobra.Command {
	return *a.cmd
}
