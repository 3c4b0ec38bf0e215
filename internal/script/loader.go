package script

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// ReadLossy reads the file at path as UTF-8 text. Byte sequences that do not
// form valid UTF-8 are dropped rather than failing the read, since a script
// corrupted mid-write can carry garbage bytes inside truncated payloads.
func ReadLossy(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read script file: %w", err)
	}

	slog.Debug("Read script file", "path", path, "size_bytes", len(raw))

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	cleaned := strings.ToValidUTF8(string(raw), "")
	slog.Debug("Dropped invalid UTF-8 sequences", "path", path, "bytes_dropped", len(raw)-len(cleaned))
	return cleaned, nil
}
