package types

import (
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger represents a logger
type Logger struct {
	*zap.SugaredLogger
	LogsPath string
	Name     string
}

// Log represents a log entry
type Log struct {
	Timestamp  time.Time
	Caller     string
	LoggerName string
	Level      zapcore.Level
	Message    string
}

// Format renders the entry as an HTML chat message.
func (l Log) Format() string {
	return fmt.Sprintf("<b>%s</b> [%s] %s\n<code>%s</code>\n%s",
		l.Level.CapitalString(),
		html.EscapeString(l.LoggerName),
		l.Timestamp.Format("2006-01-02 15:04:05"),
		html.EscapeString(l.Caller),
		html.EscapeString(l.Message),
	)
}

// LogHook is a function that will be called for each log entry
type LogHook func(log Log)
