package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/libretime/libretime-setup/internal/constants"
	"github.com/ubuntu/decorate"
)

// SchemaFiles are the schema files loaded into a new database, in order.
var SchemaFiles = []string{
	"schema.sql",
	"sequences.sql",
	"views.sql",
	"triggers.sql",
	"defaultdata.sql",
}

func (r *run) applySchema(ctx context.Context) *Error {
	apply := r.execFile
	if r.opts.psql != "" {
		apply = r.psqlFile
	}

	for _, f := range SchemaFiles {
		path := filepath.Join(r.opts.sqlDir, f)
		r.log.Info("Loading schema file", "file", path)
		if err := apply(ctx, path); err != nil {
			return newError("There was an error setting up the Airtime schema!", err, FieldName)
		}
	}
	return nil
}

// execFile runs the whole file as a single multi statement script.
// Postgres runs it as one implicit transaction, so any failing statement rolls the whole file back.
func (r *run) execFile(ctx context.Context, path string) (err error) {
	defer decorate.OnError(&err, "could not load %s", path)

	script, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, string(script)); err != nil {
		return err
	}
	return nil
}

// psqlFile hands the file to psql, stopping on the first failing statement.
func (r *run) psqlFile(ctx context.Context, path string) (err error) {
	defer decorate.OnError(&err, "could not load %s with %s", path, r.opts.psql)

	if _, err := os.Stat(path); err != nil {
		return err
	}

	env := []string{"PGPASSWORD=" + r.params.Password}
	stdout, stderr, err := r.opts.run(ctx, env, r.opts.psql,
		"-v", "ON_ERROR_STOP=1",
		"-U", r.params.User,
		"--dbname", r.params.Name,
		"-h", r.params.Host,
		"-p", strconv.Itoa(constants.DatabasePort),
		"-f", path)
	if stdout != nil {
		r.log.Debug("psql output", "file", path, "stdout", stdout.String())
	}
	if err != nil {
		var msg string
		if stderr != nil {
			msg = strings.TrimSpace(stderr.String())
		}
		return fmt.Errorf("%w: %s", err, msg)
	}
	return nil
}
