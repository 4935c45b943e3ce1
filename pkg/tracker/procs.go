package tracker

import "github.com/srodi/usercpu/pkg/types"

// Processes remembers the last counters seen for every tracked PID.
type Processes struct {
	limit   int
	records map[int]types.ProcessRecord
}

// NewProcesses returns an empty table. A limit of zero or less means unbounded.
func NewProcesses(limit int) *Processes {
	return &Processes{limit: limit, records: make(map[int]types.ProcessRecord)}
}

// Len returns the number of tracked PIDs.
func (p *Processes) Len() int {
	return len(p.records)
}

// Lookup returns the record for pid, if tracked.
func (p *Processes) Lookup(pid int) (types.ProcessRecord, bool) {
	rec, ok := p.records[pid]
	return rec, ok
}

// UpsertBaseline starts tracking pid with times as its reference point. An
// already tracked PID is left untouched.
func (p *Processes) UpsertBaseline(pid int, uid uint32, times types.CPUTimes, start types.Ticks) error {
	if _, ok := p.records[pid]; ok {
		return nil
	}
	if p.limit > 0 && len(p.records) >= p.limit {
		return ErrTableFull
	}
	p.records[pid] = types.ProcessRecord{PID: pid, UID: uid, Last: times, StartTime: start}
	return nil
}

// Advance stores times for a tracked pid and returns how far each counter
// moved since the previous observation. A counter that went backwards yields
// zero. ok is false if pid is not tracked.
func (p *Processes) Advance(pid int, times types.CPUTimes) (user, system types.Ticks, ok bool) {
	rec, ok := p.records[pid]
	if !ok {
		return 0, 0, false
	}
	user = floorDelta(times.User, rec.Last.User)
	system = floorDelta(times.System, rec.Last.System)
	rec.Last = times
	p.records[pid] = rec
	return user, system, true
}

// Reused reports whether start identifies a different process than the one
// tracked under pid. Unknown start times never count as reuse.
func (p *Processes) Reused(pid int, start types.Ticks) bool {
	rec, ok := p.records[pid]
	return ok && rec.StartTime != 0 && start != 0 && rec.StartTime != start
}

// Rebaseline replaces the record for pid with a fresh reference point. It is
// used when the PID now belongs to a different process.
func (p *Processes) Rebaseline(pid int, uid uint32, times types.CPUTimes, start types.Ticks) {
	if _, ok := p.records[pid]; !ok {
		_ = p.UpsertBaseline(pid, uid, times, start)
		return
	}
	p.records[pid] = types.ProcessRecord{PID: pid, UID: uid, Last: times, StartTime: start}
}

func floorDelta(now, before types.Ticks) types.Ticks {
	if now < before {
		return 0
	}
	return now - before
}
