package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestRedactingHandler verifies that secret-bearing attributes never reach
// the underlying handler.
func TestRedactingHandler(t *testing.T) {
	t.Parallel()

	t.Run("salt-named attribute is masked", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, "hunter2", false)

		logger.Info("starting", "salt", "hunter2")

		out := buf.String()
		if strings.Contains(out, "hunter2") {
			t.Errorf("salt leaked into log output: %s", out)
		}
		if !strings.Contains(out, MaskValue) {
			t.Errorf("expected mask value in output: %s", out)
		}
	})

	t.Run("salt value is masked regardless of key", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, "hunter2", false)

		logger.Info("debugging", "material", "hunter2")

		if strings.Contains(buf.String(), "hunter2") {
			t.Errorf("salt leaked under a different key: %s", buf.String())
		}
	})

	t.Run("secret-looking keys are masked", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, "", false)

		logger.Info("config", "password", "p", "api_key", "k")

		out := buf.String()
		if strings.Contains(out, "=p") || strings.Contains(out, "=k") {
			t.Errorf("secret values leaked: %s", out)
		}
	})

	t.Run("tokens and ordinary attributes pass through", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, "hunter2", false)

		logger.Info("hit", "token", "abc234", "depth", 7)

		out := buf.String()
		if !strings.Contains(out, "abc234") {
			t.Errorf("expected token in output: %s", out)
		}
		if !strings.Contains(out, "depth=7") {
			t.Errorf("expected depth attribute in output: %s", out)
		}
	})

	t.Run("attributes added via With are masked", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, "hunter2", false).With("salt", "hunter2")

		logger.Info("derived")

		if strings.Contains(buf.String(), "hunter2") {
			t.Errorf("salt leaked through With: %s", buf.String())
		}
	})

	t.Run("group attributes are masked recursively", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, "hunter2", false)

		logger.Info("startup", slog.Group("trap", slog.String("salt", "hunter2"), slog.Int("branching", 8)))

		out := buf.String()
		if strings.Contains(out, "hunter2") {
			t.Errorf("salt leaked inside group: %s", out)
		}
		if !strings.Contains(out, "branching=8") {
			t.Errorf("expected branching attribute in output: %s", out)
		}
	})

	t.Run("debug records are dropped unless verbose", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := NewLogger(&buf, "", false)

		logger.Debug("noisy")

		if buf.Len() != 0 {
			t.Errorf("expected no output, got %s", buf.String())
		}
	})
}
