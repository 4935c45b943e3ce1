//go:build linux

package proc

import (
	"errors"
	"testing"

	"github.com/tklauser/go-sysconf"
)

func TestTicksPerSecondFallback(t *testing.T) {
	t.Cleanup(func() {
		clockTicks = func() (int64, error) { return sysconf.Sysconf(sysconf.SC_CLK_TCK) }
	})

	cases := []struct {
		name string
		hz   int64
		err  error
		want int64
	}{
		{"reported", 250, nil, 250},
		{"zero", 0, nil, 100},
		{"negative", -1, nil, 100},
		{"error", 0, errors.New("boom"), 100},
	}
	for _, tc := range cases {
		clockTicks = func() (int64, error) { return tc.hz, tc.err }
		if got := TicksPerSecond(); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}
