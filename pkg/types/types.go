package types

import (
	"math"
	"time"
)

// DefaultTicksPerSecond is used when USER_HZ cannot be queried.
const DefaultTicksPerSecond = 100

// UnknownUID marks a process whose owner could not be determined.
const UnknownUID uint32 = math.MaxUint32

// Ticks counts processor time in clock ticks (USER_HZ).
type Ticks uint64

// CPUTimes holds the cumulative user and kernel time of one process.
type CPUTimes struct {
	User   Ticks
	System Ticks
}

// Total returns user plus system time.
func (t CPUTimes) Total() Ticks {
	return t.User + t.System
}

// ProcStat is the subset of /proc/PID/stat the sampler consumes.
type ProcStat struct {
	PID       int
	Comm      string
	State     byte
	Times     CPUTimes
	StartTime Ticks // 0 when the record is too short to carry it
}

// ProcessRecord is the last observation of a tracked PID.
type ProcessRecord struct {
	PID       int
	UID       uint32
	Last      CPUTimes
	StartTime Ticks
}

// UserRecord accumulates processor time attributed to one user.
type UserRecord struct {
	UID   uint32
	Name  string
	Ticks Ticks
}

// HostCPU is the host-wide processor time that elapsed between two readings
// of the kernel's aggregate cpu line.
type HostCPU struct {
	Busy  time.Duration
	Total time.Duration
}
