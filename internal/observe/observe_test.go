package observe

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestConsoleObserver(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, true)

	obs.Log().Info().Str("session", "s1").Msg("ritual begun")

	out := buf.String()
	if !strings.Contains(out, "ritual begun") {
		t.Errorf("expected output to contain message, got %q", out)
	}
}

func TestQuietSuppressesInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := New(buf, false)

	obs.Log().Info().Msg("should be hidden")
	if strings.Contains(buf.String(), "should be hidden") {
		t.Error("expected info to be suppressed when not verbose")
	}

	obs.Log().Warn().Msg("should be visible")
	if !strings.Contains(buf.String(), "should be visible") {
		t.Error("expected warning to pass through")
	}
}

func TestJSONObserver(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := NewJSON(buf, true)

	obs.Log().Info().Msg("structured")
	out := buf.String()
	if !strings.Contains(out, `"structured"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestSessionLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	obs := NewJSON(buf, true)

	obs.Session("s-42").Info().Msg("level transition")

	out := buf.String()
	if !strings.Contains(out, "s-42") {
		t.Errorf("expected session id in output, got %q", out)
	}
	if !strings.Contains(out, "level transition") {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestStartSpan(t *testing.T) {
	obs := New(&bytes.Buffer{}, true)

	ctx, span := obs.StartSpan(context.Background(), "ritual.advance")
	if ctx == nil || span == nil {
		t.Fatal("expected span and context")
	}
	span.End()
}
