package helper

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// GetPIDPath returns the path to the PID file.
//
// Absolute paths are returned as-is. Relative paths resolve against the
// working directory when their parent exists, otherwise the file lands in
// /var/run.
func GetPIDPath(filename string) string {
	if filename == "" {
		return filepath.Join("/var/run", "backoffice.pid")
	}
	if filepath.IsAbs(filename) {
		return filename
	}

	wd, err := os.Getwd()
	if err == nil && wd != "" {
		abs := filepath.Join(wd, filename)
		if _, err := os.Stat(filepath.Dir(abs)); err == nil {
			return abs
		}
	}
	return filepath.Join("/var/run", filepath.Base(filename))
}

// WritePID writes the current process id to path and returns a func that
// removes the file again.
func WritePID(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create pid directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write pid file: %w", err)
	}
	return func() error { return os.Remove(path) }, nil
}
