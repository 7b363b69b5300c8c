package commands

import (
	"fmt"
	"log/slog"

	"github.com/libretime/libretime-setup/internal/config"
	"github.com/libretime/libretime-setup/internal/constants"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func installConfigCmd(app *App) error {
	var brokerURL bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the legacy configuration",
		Long: `Show the legacy configuration as the web application reads it.

The file is read from the --file flag, the ` + constants.ConfigPathEnv + ` environment variable
or ` + constants.DefaultConfDir + "/" + constants.ConfigFileName + `, in that order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Debug("Running config command")
			return app.configRun(cmd, brokerURL)
		},
	}

	cmd.Flags().BoolVar(&brokerURL, "broker-url", false, "only print the message broker URL")

	app.cmd.AddCommand(cmd)
	return installLegacyFlags(app, cmd)
}

// installLegacyFlags adds the flags locating the configuration of the web application.
func installLegacyFlags(app *App, cmd *cobra.Command) error {
	cmd.Flags().StringVar(&app.config.Legacy.File, "file", "", "legacy configuration file")
	cmd.Flags().StringVar(&app.config.Legacy.VersionFile, "version-file", constants.DefaultVersionFile, "file holding the application version")

	for _, name := range []string{"file", "version-file"} {
		if err := cmd.MarkFlagFilename(name); err != nil {
			return fmt.Errorf("failed to mark %s flag as filename: %w", name, err)
		}
	}
	app.flagKeys[cmd] = map[string]string{
		"legacy.file":        "file",
		"legacy.versionfile": "version-file",
	}
	return nil
}

// loadSettings reads the configuration of the web application.
func (a App) loadSettings() (*config.Settings, error) {
	opts := []config.Options{config.WithVersionFile(a.config.Legacy.VersionFile)}
	if a.config.Legacy.File != "" {
		opts = append(opts, config.WithPath(a.config.Legacy.File))
	}
	return config.New(opts...).Get()
}

func (a App) configRun(cmd *cobra.Command, brokerURL bool) error {
	s, err := a.loadSettings()
	if err != nil {
		return err
	}

	if brokerURL {
		r, err := s.RabbitMQConfig()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), r.BrokerURL())
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(s.Map()); err != nil {
		return fmt.Errorf("could not print configuration: %v", err)
	}
	return enc.Close()
}
