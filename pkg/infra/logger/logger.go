package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultDir        = "logs"
	fileBufferSize    = 32 * 1024
	consoleBufferSize = 1024
)

type options struct {
	dir     string
	level   string
	console bool
}

type Option func(*options)

func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithLevel overrides LOG_LEVEL.
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = level
	}
}

func WithoutConsole() Option {
	return func(o *options) {
		o.console = false
	}
}

type closers []io.Closer

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewLogger builds a JSON logger writing asynchronously to <dir>/<name>.log and mirroring
// every entry on stdout. The returned closer drains and flushes both writers.
func NewLogger(name string, opts ...Option) (*logrus.Logger, io.Closer, error) {
	o := &options{
		dir:     DefaultDir,
		level:   os.Getenv("LOG_LEVEL"),
		console: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(parseLevel(o.level))

	if strings.ContainsAny(name, `/\`) || name == "" {
		return nil, nil, fmt.Errorf("invalid log name %q", name)
	}
	if err := os.MkdirAll(o.dir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	fileWriter, err := NewAsyncFileWriter(filepath.Join(o.dir, name+".log"), fileBufferSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(fileWriter)

	c := closers{fileWriter}
	if o.console {
		hook := NewAsyncConsoleHook(os.Stdout, consoleBufferSize)
		logger.AddHook(hook)
		c = append(c, hook)
	}
	return logger, c, nil
}

func parseLevel(level string) logrus.Level {
	if level == "" {
		return logrus.InfoLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
