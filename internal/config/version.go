package config

import (
	"os"
	"strings"

	"github.com/libretime/libretime-setup/internal/constants"
)

// ReadVersion returns the trimmed content of the version file at path.
// The major version is returned when the file can't be read or is blank.
func ReadVersion(path string) string {
	if path == "" {
		return constants.MajorVersion
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return constants.MajorVersion
	}

	v := strings.TrimSpace(string(b))
	if v == "" {
		return constants.MajorVersion
	}
	return v
}
