package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLogFormatEscapes(t *testing.T) {
	entry := Log{
		Timestamp:  time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Caller:     "preview/handler.go:42",
		LoggerName: "main.telegram",
		Level:      zapcore.ErrorLevel,
		Message:    "failed <to> save & alert",
	}

	got := entry.Format()
	assert.Contains(t, got, "<b>ERROR</b>")
	assert.Contains(t, got, "2024-03-01 12:30:00")
	assert.Contains(t, got, "failed &lt;to&gt; save &amp; alert")
	assert.Contains(t, got, "<code>preview/handler.go:42</code>")
}
