// Package logging builds the application's hclog root logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"
)

type Options struct {
	Path  string // empty writes to Output
	Level string
	JSON  bool

	Output io.Writer
}

// New returns the root logger and a close function for the underlying file.
func New(opts Options) (hclog.Logger, func() error, error) {
	out := opts.Output
	closeFn := func() error { return nil }
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}
	if out == nil {
		out = io.Discard
	}

	level := hclog.LevelFromString(opts.Level)
	if opts.Level == "off" {
		level = hclog.Off
	} else if level == hclog.NoLevel {
		level = hclog.Info
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "blockgarden",
		Level:      level,
		Output:     out,
		JSONFormat: opts.JSON,
	})
	return logger, closeFn, nil
}
