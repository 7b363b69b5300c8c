// Package config loads the legacy INI configuration file into Settings.
//
// A Loader reads the file once and hands the same Settings to every caller afterwards.
package config

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/libretime/libretime-setup/internal/constants"
	"gopkg.in/ini.v1"
)

// ReadError is returned when the configuration file is missing, unparsable or incomplete.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read configuration file %q: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// LoadOptions are the INI parsing rules of the configuration file.
// Only a "#" or ";" preceded by a space starts an inline comment, and double quoted values are read
// verbatim, so secrets holding those characters are kept whole.
var LoadOptions = ini.LoadOptions{
	SpaceBeforeInlineComment:  true,
	UnescapeValueDoubleQuotes: true,
}

// Load parses the INI file at path into Settings.
// The version reported in the Settings is the major version; use a Loader to read a VERSION file.
func Load(path string) (*Settings, error) {
	f, err := ini.LoadSources(LoadOptions, path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	s, err := newSettings(f)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	s.Version = constants.MajorVersion

	return s, nil
}

// Loader caches the Settings read from a configuration file.
type Loader struct {
	path        string
	versionPath string

	mu       sync.Mutex
	settings *Settings

	log *slog.Logger
}

type options struct {
	path        string
	versionPath string
	logger      *slog.Logger
}

// Options represents an optional function to override Loader default values.
type Options func(*options)

// WithPath sets the configuration file to read instead of the environment override or default location.
func WithPath(path string) Options {
	return func(o *options) {
		o.path = path
	}
}

// WithVersionFile sets the file holding the application version.
func WithVersionFile(path string) Options {
	return func(o *options) {
		o.versionPath = path
	}
}

// WithLogger sets the logger used by the Loader.
func WithLogger(l *slog.Logger) Options {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a Loader. The configuration path is resolved now, from the LIBRETIME_CONFIG_FILEPATH
// environment variable or the default location, unless WithPath is used.
func New(args ...Options) *Loader {
	opts := options{
		logger: slog.Default(),
	}

	for _, opt := range args {
		opt(&opts)
	}

	if opts.path == "" {
		opts.path = constants.GetConfigPath()
	}

	return &Loader{
		path:        opts.path,
		versionPath: opts.versionPath,
		log:         opts.logger,
	}
}

// Path returns the configuration file read by the Loader.
func (l *Loader) Path() string {
	return l.path
}

// Load reads the configuration file and replaces the cached Settings.
func (l *Loader) Load() (*Settings, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.load()
}

// Get returns the cached Settings, reading the configuration file on first use.
// A failed read is not cached: the next call tries again.
func (l *Loader) Get() (*Settings, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.settings != nil {
		return l.settings, nil
	}
	return l.load()
}

func (l *Loader) load() (*Settings, error) {
	s, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	s.Version = ReadVersion(l.versionPath)

	l.settings = s
	l.log.Info("Configuration loaded", "file", l.path, "version", s.Version)
	return s, nil
}
