//go:build !linux
// +build !linux

package proc

import "github.com/srodi/usercpu/pkg/types"

// TicksPerSecond returns the conventional USER_HZ on platforms without procfs.
func TicksPerSecond() int64 {
	return types.DefaultTicksPerSecond
}
