// Package host reads host-wide processor time from the kernel's aggregate cpu
// line, for comparison with what was attributed to users.
package host

import (
	"fmt"
	"math"
	"time"

	"github.com/prometheus/procfs"
	"github.com/srodi/usercpu/pkg/types"
)

// Snapshot is the cumulative host processor time at one instant.
type Snapshot struct {
	Busy  time.Duration
	Total time.Duration
}

// Reader samples <root>/stat.
type Reader struct {
	fs procfs.FS
}

// NewReader opens the procfs tree at root.
func NewReader(root string) (*Reader, error) {
	fs, err := procfs.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("opening procfs at %s: %w", root, err)
	}
	return &Reader{fs: fs}, nil
}

// Snapshot reads the current cumulative counters. Idle and iowait count as
// not busy; guest time is already part of user time and is not added again.
func (r *Reader) Snapshot() (Snapshot, error) {
	stat, err := r.fs.Stat()
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading host cpu stat: %w", err)
	}
	c := stat.CPUTotal
	busy := c.User + c.Nice + c.System + c.IRQ + c.SoftIRQ + c.Steal
	return Snapshot{Busy: seconds(busy), Total: seconds(busy + c.Idle + c.Iowait)}, nil
}

// Between returns the host processor time spent from before to after.
// Counters that went backwards contribute zero.
func Between(before, after Snapshot) types.HostCPU {
	return types.HostCPU{
		Busy:  max(after.Busy-before.Busy, 0),
		Total: max(after.Total-before.Total, 0),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
