package tracker

import (
	"errors"
	"testing"

	"github.com/srodi/usercpu/pkg/types"
)

func TestAdvanceReturnsPerSampleDeltas(t *testing.T) {
	procs := NewProcesses(0)
	if err := procs.UpsertBaseline(10, 7, types.CPUTimes{User: 5, System: 5}, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	du, ds, ok := procs.Advance(10, types.CPUTimes{User: 8, System: 9})
	if !ok || du != 3 || ds != 4 {
		t.Fatalf("expected (3, 4, true), got (%d, %d, %t)", du, ds, ok)
	}

	du, ds, ok = procs.Advance(10, types.CPUTimes{User: 8, System: 9})
	if !ok || du != 0 || ds != 0 {
		t.Fatalf("unchanged counters should give zero delta, got (%d, %d, %t)", du, ds, ok)
	}

	rec, _ := procs.Lookup(10)
	if rec.Last != (types.CPUTimes{User: 8, System: 9}) || rec.UID != 7 {
		t.Fatalf("record not updated in place: %+v", rec)
	}
}

func TestAdvanceFloorsDecreasesAtZero(t *testing.T) {
	procs := NewProcesses(0)
	_ = procs.UpsertBaseline(10, 7, types.CPUTimes{User: 50, System: 5}, 0)

	du, ds, _ := procs.Advance(10, types.CPUTimes{User: 2, System: 9})
	if du != 0 || ds != 4 {
		t.Fatalf("expected (0, 4), got (%d, %d)", du, ds)
	}
	du, ds, _ = procs.Advance(10, types.CPUTimes{User: 3, System: 1})
	if du != 1 || ds != 0 {
		t.Fatalf("delta should be relative to the previous sample, got (%d, %d)", du, ds)
	}
}

func TestAdvanceUnknownPID(t *testing.T) {
	if _, _, ok := NewProcesses(0).Advance(1, types.CPUTimes{}); ok {
		t.Fatalf("expected ok=false for an untracked pid")
	}
}

func TestUpsertBaselineKeepsExistingRecord(t *testing.T) {
	procs := NewProcesses(0)
	_ = procs.UpsertBaseline(10, 7, types.CPUTimes{User: 5}, 0)
	_ = procs.UpsertBaseline(10, 8, types.CPUTimes{User: 99}, 0)

	rec, ok := procs.Lookup(10)
	if !ok || rec.UID != 7 || rec.Last.User != 5 {
		t.Fatalf("existing record was overwritten: %+v", rec)
	}
	if procs.Len() != 1 {
		t.Fatalf("expected a single record, got %d", procs.Len())
	}
}

func TestProcessesLimitRejectsNewEntries(t *testing.T) {
	procs := NewProcesses(2)
	_ = procs.UpsertBaseline(1, 0, types.CPUTimes{}, 0)
	_ = procs.UpsertBaseline(2, 0, types.CPUTimes{}, 0)

	if err := procs.UpsertBaseline(3, 0, types.CPUTimes{}, 0); !errors.Is(err, ErrTableFull) {
		t.Fatalf("expected ErrTableFull, got %v", err)
	}
	if err := procs.UpsertBaseline(1, 0, types.CPUTimes{}, 0); err != nil {
		t.Fatalf("re-upserting a tracked pid should not fail: %v", err)
	}
	if _, ok := procs.Lookup(3); ok {
		t.Fatalf("rejected pid must not be tracked")
	}
}

func TestReusedAndRebaseline(t *testing.T) {
	procs := NewProcesses(0)
	_ = procs.UpsertBaseline(10, 7, types.CPUTimes{User: 40, System: 40}, 100)
	_ = procs.UpsertBaseline(11, 7, types.CPUTimes{}, 0)

	cases := []struct {
		pid   int
		start types.Ticks
		want  bool
	}{
		{10, 100, false},
		{10, 0, false},
		{10, 250, true},
		{11, 250, false},
		{12, 250, false},
	}
	for _, tc := range cases {
		if got := procs.Reused(tc.pid, tc.start); got != tc.want {
			t.Fatalf("Reused(%d, %d): expected %t, got %t", tc.pid, tc.start, tc.want, got)
		}
	}

	procs.Rebaseline(10, 9, types.CPUTimes{User: 60, System: 1}, 250)
	rec, _ := procs.Lookup(10)
	if rec.UID != 9 || rec.StartTime != 250 || rec.Last.User != 60 {
		t.Fatalf("rebaseline did not replace the record: %+v", rec)
	}
	du, ds, _ := procs.Advance(10, types.CPUTimes{User: 61, System: 1})
	if du != 1 || ds != 0 {
		t.Fatalf("expected deltas against the new baseline, got (%d, %d)", du, ds)
	}
}
