package logx

import (
	"strings"
	"testing"
)

func TestLinesCaptureLevels(t *testing.T) {
	Reset()
	SetLevel(Info)
	Debugf("hidden %d", 1)
	Infof("shown %d", 2)
	Errorf("boom %s", "x")
	lines := Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "shown 2") {
		t.Fatalf("first line: %s", lines[0])
	}
	if !strings.Contains(Dump(), "boom x") {
		t.Fatalf("dump missing error line: %s", Dump())
	}
}

func TestRingDropsOldest(t *testing.T) {
	Reset()
	SetLevel(Debug)
	defer SetLevel(Info)
	for i := 0; i < maxLines+10; i++ {
		Debugf("line %d", i)
	}
	lines := Lines()
	if len(lines) != maxLines {
		t.Fatalf("expected %d lines, got %d", maxLines, len(lines))
	}
	if !strings.Contains(lines[0], "line 10") {
		t.Fatalf("oldest kept line: %s", lines[0])
	}
}
