// Package sampler drives the baseline-then-delta accounting loop.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"time"

	"github.com/srodi/usercpu/pkg/tracker"
	"github.com/srodi/usercpu/pkg/types"
)

// DefaultInterval is the wait between two samples.
const DefaultInterval = time.Second

// ErrInvalidDuration is returned by Run for a non-positive tick count.
var ErrInvalidDuration = errors.New("duration must be a positive number of ticks")

// Source enumerates processes and reads their owner and counters.
// *proc.Reader satisfies it.
type Source interface {
	PIDs() iter.Seq2[int, error]
	Owner(pid int) (uint32, error)
	Stat(pid int) (types.ProcStat, error)
}

// Stats counts what happened during a run.
type Stats struct {
	Ticks        int // completed samples, excluding the baseline
	ScanErrors   int // scans abandoned because the process root was unreadable
	Skipped      int // per-PID reads that failed and were ignored for one scan
	Reused       int // PIDs re-baselined because their start time changed
	DroppedProcs int // PIDs rejected by a full process table
	DroppedUsers int // attributions rejected by a full user table
}

// Sampler owns the process and user tables for one monitoring run. It is
// meant to be used from a single goroutine.
type Sampler struct {
	src      Source
	interval time.Duration
	maxProcs int
	maxUsers int
	resolve  tracker.Resolver
	logger   *log.Logger
	sleep    func(ctx context.Context, d time.Duration) error

	procs *tracker.Processes
	users *tracker.Users
	stats Stats
}

// Option customizes a Sampler.
type Option func(*Sampler)

// WithInterval sets the wait between samples.
func WithInterval(d time.Duration) Option {
	return func(s *Sampler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLimits bounds the process and user tables. Zero means unbounded.
func WithLimits(maxProcs, maxUsers int) Option {
	return func(s *Sampler) {
		s.maxProcs = maxProcs
		s.maxUsers = maxUsers
	}
}

// WithResolver overrides how uids are turned into display names.
func WithResolver(r tracker.Resolver) Option {
	return func(s *Sampler) { s.resolve = r }
}

// WithLogger sets where scan failures are reported.
func WithLogger(l *log.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSleep replaces the inter-sample wait.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Sampler) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// New builds a Sampler reading from src.
func New(src Source, opts ...Option) *Sampler {
	s := &Sampler{
		src:      src,
		interval: DefaultInterval,
		logger:   log.New(io.Discard, "", 0),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.procs = tracker.NewProcesses(s.maxProcs)
	s.users = tracker.NewUsers(s.maxUsers, s.resolve)
	return s
}

// Run takes a baseline and then exactly duration samples, waiting one
// interval before each. If ctx ends during a wait, Run returns ctx.Err() and
// the totals gathered so far remain available.
func (s *Sampler) Run(ctx context.Context, duration int) error {
	if duration <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, duration)
	}
	s.Baseline()
	for k := 0; k < duration; k++ {
		if err := s.sleep(ctx, s.interval); err != nil {
			return err
		}
		s.Sample()
	}
	return nil
}

// Baseline records the current counters of every readable process without
// attributing anything, so work done before monitoring is never counted.
func (s *Sampler) Baseline() {
	s.scan(false)
}

// Sample performs one scan and credits each user with the work their
// processes did since the previous scan.
func (s *Sampler) Sample() {
	s.scan(true)
	s.stats.Ticks++
}

// Users returns the per-user totals in first-seen order.
func (s *Sampler) Users() []types.UserRecord {
	return s.users.Records()
}

// Stats returns the run counters.
func (s *Sampler) Stats() Stats {
	return s.stats
}

func (s *Sampler) scan(attribute bool) {
	for pid, err := range s.src.PIDs() {
		if err != nil {
			s.stats.ScanErrors++
			s.logger.Printf("scan failed: %v", err)
			return
		}
		s.observe(pid, attribute)
	}
}

func (s *Sampler) observe(pid int, attribute bool) {
	uid, err := s.src.Owner(pid)
	if err != nil || uid == types.UnknownUID {
		s.stats.Skipped++
		return
	}
	st, err := s.src.Stat(pid)
	if err != nil {
		s.stats.Skipped++
		return
	}

	rec, tracked := s.procs.Lookup(pid)
	switch {
	case !tracked:
		// First sighting: this becomes the reference point and contributes nothing yet.
		s.track(pid, uid, st)
	case !attribute:
		// Already seeded during this baseline.
	case s.procs.Reused(pid, st.StartTime):
		s.stats.Reused++
		s.procs.Rebaseline(pid, uid, st.Times, st.StartTime)
		s.register(uid)
	default:
		du, ds, _ := s.procs.Advance(pid, st.Times)
		if err := s.users.Accumulate(rec.UID, du+ds); err != nil {
			s.stats.DroppedUsers++
		}
	}
}

func (s *Sampler) track(pid int, uid uint32, st types.ProcStat) {
	if err := s.procs.UpsertBaseline(pid, uid, st.Times, st.StartTime); err != nil {
		s.stats.DroppedProcs++
	}
	s.register(uid)
}

func (s *Sampler) register(uid uint32) {
	if _, err := s.users.FindOrCreate(uid); err != nil {
		s.stats.DroppedUsers++
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
