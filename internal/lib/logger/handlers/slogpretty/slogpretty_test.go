package slogpretty

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	opts := PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}
	log := slog.New(opts.NewPrettyHandler(&buf)).With(slog.String("op", "test"))

	log.Info("event added", slog.String("id", "abc"))

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "event added")
	assert.Contains(t, out, `"id": "abc"`)
	assert.Contains(t, out, `"op": "test"`)
}
