package logging

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileSettings configures rotating log file output.
type FileSettings struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewWriter selects the log destination. With an empty path it returns
// stderr; otherwise a size-rotated file writer, used by serve mode where
// readycheck runs unattended. The returned closer is a no-op for stderr.
func NewWriter(fs FileSettings) io.WriteCloser {
	if fs.Path == "" {
		return nopCloser{os.Stderr}
	}

	return &lumberjack.Logger{
		Filename:   fs.Path,
		MaxSize:    fs.MaxSizeMB,
		MaxBackups: fs.MaxBackups,
		MaxAge:     fs.MaxAgeDays,
		Compress:   true,
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
