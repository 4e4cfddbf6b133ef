// Package logx wires up the structured logger shared by every command in
// this repository, so a seller and buyer process emit the same timestamp
// format and field style regardless of which cmd/ binary started them.
package logx

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lestrrat-go/strftime"
)

// New builds a logger writing to w (os.Stderr in production, a buffer in
// tests) at the given level, timestamping each line as 15:04:05.000. No
// caller location or prefix is added.
func New(w io.Writer, level log.Level) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
	logger.SetLevel(level)
	return logger
}

// Default returns the process-wide logger used by cmd/ entry points before
// they've parsed configuration (e.g. to report a config load failure).
func Default() *log.Logger {
	return New(os.Stderr, log.InfoLevel)
}

// FormatTimestamp renders t using an strftime pattern, the same format
// vocabulary cmd/direwolf's "-T" timestamp-prefix flag accepts
// (doismellburning-samoyed/src/kissutil.go), offered here so operators
// moving between that TNC and this payment endpoint don't have to learn
// Go's reference-time layout just to prefix a status line.
func FormatTimestamp(pattern string, t time.Time) (string, error) {
	return strftime.Format(pattern, t)
}

// NewSessionID returns a fresh random correlation ID. Each seller or buyer
// run attaches one to its logger, so that run's lines can be grepped out
// of a shared log stream; the seller and buyer each generate their own,
// and a restarted process gets a new one.
func NewSessionID() string {
	return uuid.NewString()
}

// ParseLevel maps a config/flag string to a charmbracelet/log level,
// defaulting to info for anything unrecognized rather than failing
// startup over a typo'd log level.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
