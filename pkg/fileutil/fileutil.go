// Package fileutil holds small filesystem helpers used by the output
// writer and asset resolver.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ronpik/website-fetch/pkg/failure"
)

// GetFileExtension returns path's extension without the leading dot, or
// "" if it has none.
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimPrefix(ext, ".")
}

// EnsureDir creates dir (and any joined path segments) if it does not
// already exist.
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	target := filepath.Join(append([]string{dir}, path...)...)
	if err := os.MkdirAll(target, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("create directory %s: %v", target, err),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	return nil
}
