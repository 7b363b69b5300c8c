package setup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/libretime/libretime-setup/internal/fileutils"
)

// SecretKeys are the stream settings receiving the generated Icecast password, in write order.
var SecretKeys = []string{
	"s1_pass",
	"s1_admin_pass",
	"s2_pass",
	"s2_admin_pass",
	"s3_pass",
	"s3_admin_pass",
	"s1_admin_pass",
}

const (
	queryUpdateStreamSetting = `UPDATE cc_stream_setting SET value = $1 WHERE keyname = $2`
	queryInsertDefaultPass   = `INSERT INTO cc_pref (keystr, valstr) VALUES ('default_icecast_password', $1)`
)

func (r *run) patchSecrets(ctx context.Context) *Error {
	secret, err := readSecret(r.opts.secretFile)
	if err != nil {
		return err
	}

	for _, key := range SecretKeys {
		if err := r.writeSecret(ctx, key, queryUpdateStreamSetting, secret, key); err != nil {
			return err
		}
	}
	return r.writeSecret(ctx, "default_icecast_password", queryInsertDefaultPass, secret)
}

func readSecret(path string) (string, *Error) {
	secret, err := fileutils.ReadFirstLine(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", newError("The Icecast Password file was not accessible", err)
	}
	if err != nil {
		return "", newError("The Icecast Password file could not be read", err)
	}
	if secret == "" {
		return "", newError("The Icecast Password file is empty", fmt.Errorf("no password in %s", path))
	}
	return secret, nil
}

// writeSecret runs one secret write. Failures only abort the provisioning in strict mode.
func (r *run) writeSecret(ctx context.Context, setting, query string, args ...any) *Error {
	_, err := r.db.ExecContext(ctx, query, args...)
	if err == nil {
		return nil
	}

	if r.opts.strictSecretWrites {
		return newError("There was an error saving the Icecast password!", err)
	}
	r.log.Warn("Could not save the Icecast password, skipping", "setting", setting, "error", err)
	return nil
}
