package stack

import (
	"strings"
	"testing"
)

//go:noinline
func liveFromHelper() string {
	return Live(0)
}

// TestLiveStartsAtCaller verifies the first frame is the caller of Live.
func TestLiveStartsAtCaller(t *testing.T) {
	trace := liveFromHelper()

	if !strings.HasPrefix(trace, "\n") {
		t.Errorf("live trace should start with a blank line, got %q", trace[:min(len(trace), 20)])
	}

	lines := strings.Split(strings.TrimPrefix(trace, "\n"), "\n")
	if len(lines) < 3 {
		t.Fatalf("live trace too short:\n%s", trace)
	}
	if !strings.HasPrefix(lines[1], "0   ") || !strings.HasSuffix(lines[1], "liveFromHelper") {
		t.Errorf("first frame = %q, want frame 0 in liveFromHelper", lines[1])
	}
	if !strings.Contains(lines[2], "live_test.go:") {
		t.Errorf("first frame location = %q, want live_test.go", lines[2])
	}
	if !strings.Contains(trace, "TestLiveStartsAtCaller") {
		t.Errorf("trace should include the test function:\n%s", trace)
	}
}

// TestLiveSkip verifies skip drops frames above the caller.
func TestLiveSkip(t *testing.T) {
	trace := Live(1)

	if strings.Contains(trace, "TestLiveSkip") {
		t.Errorf("skip=1 should omit the calling test function:\n%s", trace)
	}
}

// TestLiveNeverEmpty checks the store fallback always gets text.
func TestLiveNeverEmpty(t *testing.T) {
	if trace := Live(0); strings.TrimSpace(trace) == "" {
		t.Error("Live returned an empty trace")
	}
}

// TestIdentity checks the build identity line.
func TestIdentity(t *testing.T) {
	id := Identity()

	if id == "" {
		t.Fatal("Identity returned empty string")
	}
	if !strings.HasSuffix(id, ")") || !strings.Contains(id, " (") {
		t.Errorf("Identity = %q, want a trailing (go version)", id)
	}
}
