package probe

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/okian/jelajah/pkg/logger"
)

const filePermission = 0o600

// SetupLogging sends the global logger to stderr and, when path is set, to
// that file as well. The returned func closes the file.
func SetupLogging(path string, verbose bool) (func() error, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return nil, err
	}
	if path == "" {
		return func() error { return nil }, logger.SetOutput(os.Stderr)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := logger.SetOutput(io.MultiWriter(os.Stderr, f)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f.Close, nil
}

// WriteReport writes rep as indented JSON.
func WriteReport(w io.Writer, rep Report) error {
	if rep.Violations == nil {
		rep.Violations = []Violation{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// SaveReport writes rep to path.
func SaveReport(path string, rep Report) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteReport(f, rep); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
