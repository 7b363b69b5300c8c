// Package constants is responsible for defining the constants used in the application.
// It also provides utility functions to get the default configuration paths.
package constants

import (
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "libretime-setup"

	// DefaultLogLevel is the default log level selected without any verbosity flags.
	DefaultLogLevel = slog.LevelWarn

	// ConfigPathEnv is the environment variable overriding the legacy configuration file location.
	ConfigPathEnv = "LIBRETIME_CONFIG_FILEPATH"

	// DefaultConfDir is the directory holding the legacy configuration and generated secrets.
	DefaultConfDir = "/etc/airtime"

	// ConfigFileName is the base name of the legacy configuration file.
	ConfigFileName = "airtime.conf"

	// InstallerConfigFileName is the base name of the configuration file written while installing.
	InstallerConfigFileName = "airtime.conf.temp"

	// SecretFileName is the base name of the file holding the generated Icecast password.
	SecretFileName = "icecast_pass"

	// DefaultSQLDir is where the schema files shipped with the legacy application live.
	DefaultSQLDir = "/usr/share/libretime/legacy/build/sql"

	// DefaultVersionFile holds the full version of the installed application.
	DefaultVersionFile = "/usr/share/libretime/VERSION"

	// MajorVersion is reported when no VERSION file can be read.
	MajorVersion = "3"

	// AdminDatabase is the database used to check for and create the target database.
	AdminDatabase = "postgres"

	// DatabasePort is the fixed PostgreSQL port used by the installer.
	DatabasePort = 5432
)

type options struct {
	getenv func(string) string
}

type option func(*options)

// GetConfigPath returns the path to the legacy configuration file.
// The ConfigPathEnv environment variable takes precedence over the default location.
func GetConfigPath(opts ...option) string {
	o := options{getenv: os.Getenv}
	for _, opt := range opts {
		opt(&o)
	}

	if p := o.getenv(ConfigPathEnv); p != "" {
		return p
	}
	return filepath.Join(DefaultConfDir, ConfigFileName)
}

// GetInstallerConfigPath is the default path of the configuration written during installation.
func GetInstallerConfigPath() string {
	return filepath.Join(DefaultConfDir, InstallerConfigFileName)
}

// GetSecretPath is the default path of the generated Icecast password file.
func GetSecretPath() string {
	return filepath.Join(DefaultConfDir, SecretFileName)
}
