package app

import "testing"

func TestDefaultLoggerDebugToggle(t *testing.T) {
	l := NewDefaultLogger("test", false)
	if l.DebugEnabled() {
		t.Error("debug enabled by default")
	}
	l.SetDebug(true)
	if !l.DebugEnabled() {
		t.Error("SetDebug(true) had no effect")
	}
	l.SetDebug(false)
	if l.DebugEnabled() {
		t.Error("SetDebug(false) had no effect")
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	if l.DebugEnabled() {
		t.Error("nop logger reports debug enabled")
	}
	// Must not panic
	l.SetDebug(true)
	l.Debugf("a %d", 1)
	l.Infof("b %s", "x")
	l.Warnf("c")
	l.Errorf("d")
}
