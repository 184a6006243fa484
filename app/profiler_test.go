package app

import (
	"strings"
	"testing"
	"time"
)

func TestProfilerScopes(t *testing.T) {
	p := NewProfiler()

	p.BeginScope("update")
	time.Sleep(time.Millisecond)
	p.EndScope("update")

	if p.Scopes["update"] <= 0 {
		t.Errorf("scope duration = %v, want > 0", p.Scopes["update"])
	}
}

func TestProfilerKeepsInsertionOrder(t *testing.T) {
	p := NewProfiler()
	for _, name := range []string{"tree", "instances", "render"} {
		p.BeginScope(name)
		p.EndScope(name)
	}
	// Re-entering a scope must not duplicate it
	p.BeginScope("tree")
	p.EndScope("tree")

	if len(p.Order) != 3 {
		t.Fatalf("order length = %d, want 3", len(p.Order))
	}
	if p.Order[0] != "tree" || p.Order[1] != "instances" || p.Order[2] != "render" {
		t.Errorf("order = %v", p.Order)
	}
}

func TestProfilerEndWithoutBegin(t *testing.T) {
	p := NewProfiler()
	p.EndScope("never-started")
	if _, ok := p.Scopes["never-started"]; ok {
		t.Error("EndScope without BeginScope recorded a duration")
	}
}

func TestProfilerStatsString(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("render")
	p.EndScope("render")
	p.SetCount("bodies", 1000)

	stats := p.GetStatsString()
	if !strings.Contains(stats, "render") {
		t.Errorf("stats missing scope name:\n%s", stats)
	}
	if !strings.Contains(stats, "bodies") || !strings.Contains(stats, "1000") {
		t.Errorf("stats missing counter:\n%s", stats)
	}
}
