//go:build !linux

package proc

import "testing"

func TestStubTicksPerSecond(t *testing.T) {
	if got := TicksPerSecond(); got != 100 {
		t.Fatalf("expected default 100 ticks per second, got %d", got)
	}
}
