package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrettyHandler(t *testing.T) {
	t.Run("Create PrettyHandler with default options", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		require.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
		assert.NotNil(t, handler.Handler, "Expected handler to have a non-nil Handler field")
		assert.NotNil(t, handler.l, "Expected handler to have a non-nil logger field")
	})

	t.Run("Enabled respects configured level", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: slog.LevelWarn},
		})

		assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
	})
}

type lazyMention string

func (m lazyMention) LogValue() slog.Value {
	return slog.StringValue(string(m))
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		level slog.Level
		attr  slog.Attr
		want  []string
	}{
		{"Debug with string attribute", slog.LevelDebug, slog.String("mention", "the company"), []string{"DEBUG:", "mention", "the company"}},
		{"Info with int attribute", slog.LevelInfo, slog.Int("entity", 42), []string{"INFO:", "entity", "42"}},
		{"Warn with bool attribute", slog.LevelWarn, slog.Bool("excluded", true), []string{"WARN:", "excluded", "true"}},
		{"Error with float attribute", slog.LevelError, slog.Float64("probability", 0.75), []string{"ERROR:", "probability", "0.75"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
				SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
			})

			record := slog.NewRecord(time.Now(), tt.level, "resolver decision", 0)
			record.AddAttrs(tt.attr)

			err := handler.Handle(ctx, record)
			assert.NoError(t, err, "Expected Handle to not return an error")

			output := buf.String()
			assert.Contains(t, output, "resolver decision")
			for _, w := range tt.want {
				assert.Contains(t, output, w)
			}
			assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, output, "Expected properly formatted timestamp")
		})
	}

	t.Run("Resolves LogValuer attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "resolver decision", 0)
		record.AddAttrs(slog.Any("mention", lazyMention("Acme Corp")))
		require.NoError(t, handler.Handle(ctx, record))

		assert.Contains(t, buf.String(), `"mention": "Acme Corp"`)
	})

	t.Run("Handle log with no attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		record := slog.NewRecord(time.Now(), slog.LevelInfo, "simple message", 0)
		err := handler.Handle(ctx, record)

		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "{}", "Expected output to contain empty JSON object for attributes")
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("visible", slog.String("resolver", "isa"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "isa")
}
