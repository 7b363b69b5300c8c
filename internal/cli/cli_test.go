package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/libretime/libretime-setup/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestInitViperConfig(t *testing.T) {
	// Not parallel: uses t.Setenv.

	tests := map[string]struct {
		configContent string
		noConfigFlag  bool
		env           map[string]string

		wantHost string
		wantErr  bool
	}{
		"No configuration file": {noConfigFlag: true},
		"Value from config":     {configContent: "dbhost: fromfile\n", wantHost: "fromfile"},
		"Value from env":        {configContent: "verbose: 1\n", env: map[string]string{"LIBRETIME_SETUP_DBHOST": "fromenv"}, wantHost: "fromenv"},

		"Error on invalid configuration file": {configContent: "dbhost: [unterminated\n", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cmd := &cobra.Command{Use: "libretime-setup"}
			cli.InstallConfigFlag(cmd)
			var args []string
			if !tc.noConfigFlag {
				p := filepath.Join(t.TempDir(), "libretime-setup.yaml")
				require.NoError(t, os.WriteFile(p, []byte(tc.configContent), 0600), "Setup: could not write config file")
				args = []string{"--config", p}
			}
			require.NoError(t, cmd.ParseFlags(args), "Setup: could not parse flags")

			vip := viper.New()
			err := cli.InitViperConfig("libretime-setup", cmd, vip)
			if tc.wantErr {
				require.Error(t, err, "InitViperConfig should return an error")
				return
			}
			require.NoError(t, err, "InitViperConfig should not return an error")
			require.Equal(t, tc.wantHost, vip.GetString("dbhost"), "InitViperConfig should resolve values from the expected source")
		})
	}
}
