package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug", "PHASE"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestLevelScopes(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeRule) {
		t.Errorf("phase level must not emit rule spans")
	}
	if !LevelDetail.ShouldEmit(ScopeRule) {
		t.Errorf("detail level must emit rule spans")
	}
	if LevelDetail.ShouldEmit(ScopeDebug) {
		t.Errorf("detail level must not emit debug events")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	root := Begin(tr, ScopePass, "analyze", 0)
	rule := Begin(tr, ScopeRule, "rule:daily-load", root.ID())
	rule.WithExtra("diagnostics", "2").WithExtra("entries", "10").End("")
	Begin(tr, ScopeDebug, "hidden", root.ID()).End("")
	root.End("done")

	out := buf.String()
	for _, want := range []string{"→ analyze", "→ rule:daily-load", "← rule:daily-load {diagnostics=2, entries=10}", "← analyze (done)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug span leaked at detail level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatNDJSON)

	Begin(tr, ScopeDriver, "skipped", 0).End("")
	Error(tr, "load", errors.New("boom"), 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected a single error event, got %d lines:\n%s", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["kind"] != "error" || ev["detail"] != "boom" {
		t.Errorf("unexpected event: %v", ev)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop tracer by default")
	}
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != tr {
		t.Fatalf("tracer not propagated")
	}
	span := Begin(tr, ScopePass, "load", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("span not propagated")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatalf("expected disabled tracer")
	}
}
