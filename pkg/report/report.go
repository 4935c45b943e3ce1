package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/srodi/usercpu/pkg/types"
)

// NoUsageLine is printed instead of rows when no user accumulated any time.
const NoUsageLine = "(No CPU usage recorded)"

// Row is one ranked line of the final report.
type Row struct {
	Rank   int
	UID    uint32
	Name   string
	Ticks  types.Ticks
	Millis uint64
}

// Options controls optional report sections.
type Options struct {
	// Host, when set, adds a footer comparing attributed time with host busy time.
	Host *types.HostCPU
}

// TicksToMillis converts clock ticks to whole milliseconds, rounding down.
// A non-positive rate falls back to types.DefaultTicksPerSecond.
func TicksToMillis(ticks types.Ticks, ticksPerSecond int64) uint64 {
	if ticksPerSecond <= 0 {
		ticksPerSecond = types.DefaultTicksPerSecond
	}
	return uint64(ticks) * 1000 / uint64(ticksPerSecond)
}

// Rank orders users by accumulated ticks, highest first, and numbers them from
// 1. Users with no accumulated time are left out. Ties keep input order.
func Rank(users []types.UserRecord, ticksPerSecond int64) []Row {
	candidates := make([]types.UserRecord, 0, len(users))
	for _, u := range users {
		if u.Ticks == 0 {
			continue
		}
		candidates = append(candidates, u)
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Ticks > candidates[j].Ticks })

	rows := make([]Row, 0, len(candidates))
	for i, u := range candidates {
		rows = append(rows, Row{
			Rank:   i + 1,
			UID:    u.UID,
			Name:   u.Name,
			Ticks:  u.Ticks,
			Millis: TicksToMillis(u.Ticks, ticksPerSecond),
		})
	}
	return rows
}

// Render writes the ranked per-user table to w.
func Render(w io.Writer, users []types.UserRecord, ticksPerSecond int64, opts Options) error {
	rows := Rank(users, ticksPerSecond)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tUser\tCPU Time (milliseconds)")
	fmt.Fprintln(tw, "----\t----\t-----------------------")
	var attributed uint64
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", row.Rank, row.Name, row.Millis)
		attributed += row.Millis
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(rows) == 0 {
		if _, err := fmt.Fprintln(w, NoUsageLine); err != nil {
			return err
		}
	}

	if opts.Host != nil {
		_, err := fmt.Fprintf(w, "\n%s\n", HostSummary(*opts.Host, attributed))
		return err
	}
	return nil
}

// HostSummary describes how much of the host's busy time was attributed to users.
func HostSummary(host types.HostCPU, attributedMillis uint64) string {
	busy := uint64(host.Busy.Milliseconds())
	if busy == 0 {
		return fmt.Sprintf("Host CPU busy: 0 ms, attributed: %d ms", attributedMillis)
	}
	pct := 100 * float64(attributedMillis) / float64(busy)
	return fmt.Sprintf("Host CPU busy: %d ms, attributed: %d ms (%.1f%%)", busy, attributedMillis, pct)
}
