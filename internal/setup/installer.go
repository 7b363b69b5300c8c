package setup

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/libretime/libretime-setup/internal/constants"
	"github.com/libretime/libretime-setup/internal/fileutils"
	"github.com/ubuntu/decorate"
	"gopkg.in/ini.v1"
)

// writeInstallerConfig saves the connection parameters in the [database] section of path,
// keeping any other section already there.
func writeInstallerConfig(path string, p Params) (err error) {
	if path == "" {
		return nil
	}
	defer decorate.OnError(&err, "could not write installer configuration %s", path)

	// Existing lines are written back as read, quotes and trailing text included.
	f, err := ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, path)
	if err != nil {
		return err
	}

	sec := f.Section("database")
	sec.Key("host").SetValue(quoteValue(p.Host))
	sec.Key("name").SetValue(quoteValue(p.Name))
	sec.Key("user").SetValue(quoteValue(p.User))
	sec.Key("password").SetValue(quoteValue(p.Password))

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return err
	}
	return fileutils.AtomicWrite(path, buf.Bytes())
}

// iniReserved are the characters PHP's parse_ini_file only accepts inside a double quoted value.
const iniReserved = `#;"'=&|~!^(){}[]$`

// quoteValue double quotes v when it holds INI reserved characters or surrounding spaces.
func quoteValue(v string) string {
	if !strings.ContainsAny(v, iniReserved) && strings.TrimSpace(v) == v {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

// triggerMigration starts the migration of the second schema.
// Its outcome is logged only.
func (r *run) triggerMigration(ctx context.Context) {
	if r.opts.migrationsDir != "" {
		r.log.Info("Applying migrations", "dir", r.opts.migrationsDir)
		if err := r.opts.migrate(r.params.config(r.params.Name), r.opts.migrationsDir); err != nil {
			r.log.Warn("Migrations failed", "dir", r.opts.migrationsDir, "error", err)
		}
		return
	}

	if len(r.opts.migrateCommand) == 0 {
		r.log.Info("No migrate command configured, skipping migrations")
		return
	}

	name, args := r.opts.migrateCommand[0], r.opts.migrateCommand[1:]
	env := []string{fmt.Sprintf("%s=%s", constants.ConfigPathEnv, r.opts.installerConfig)}

	r.log.Info("Running migrate command", "command", strings.Join(r.opts.migrateCommand, " "))
	stdout, stderr, err := r.opts.run(ctx, env, name, args...)
	if err != nil {
		var msg string
		if stderr != nil {
			msg = strings.TrimSpace(stderr.String())
		}
		r.log.Warn("Migrate command failed", "error", err, "stderr", msg)
		return
	}
	if stdout != nil {
		r.log.Debug("Migrate command output", "stdout", stdout.String())
	}
}
