//go:build linux
// +build linux

package proc

import (
	"github.com/srodi/usercpu/pkg/types"
	"github.com/tklauser/go-sysconf"
)

// clockTicks allows tests to stub the sysconf query.
var clockTicks = func() (int64, error) {
	return sysconf.Sysconf(sysconf.SC_CLK_TCK)
}

// TicksPerSecond returns USER_HZ, or types.DefaultTicksPerSecond if the query
// fails or reports a non-positive rate.
func TicksPerSecond() int64 {
	hz, err := clockTicks()
	if err != nil || hz <= 0 {
		return types.DefaultTicksPerSecond
	}
	return hz
}
