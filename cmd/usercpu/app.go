//go:build linux

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/srodi/usercpu/pkg/collector/host"
	"github.com/srodi/usercpu/pkg/collector/proc"
	"github.com/srodi/usercpu/pkg/config"
	"github.com/srodi/usercpu/pkg/report"
	"github.com/srodi/usercpu/pkg/sampler"
	"github.com/srodi/usercpu/pkg/ui"
)

const usageLine = "Usage: usercpu [flags] <duration_seconds>"

const (
	exitOK    = 0
	exitUsage = 2
)

// ticksPerSecond allows tests to pin USER_HZ.
var ticksPerSecond = proc.TicksPerSecond

type runConfig struct {
	config.Config
	duration int
}

// parseConfig layers explicitly set flags over the config file over the
// defaults. Errors have already been reported on stderr when it returns.
func parseConfig(args []string, stderr io.Writer) (runConfig, error) {
	fset := flag.NewFlagSet("usercpu", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		fset.PrintDefaults()
	}

	configPath := fset.String("config", "", "YAML file with run settings")
	interval := fset.Duration("interval", config.DefaultInterval, "wait between samples")
	procRoot := fset.String("proc-root", config.DefaultProcRoot, "procfs mount point")
	maxProcs := fset.Int("max-procs", 0, "maximum tracked processes, 0 for no limit")
	maxUsers := fset.Int("max-users", 0, "maximum tracked users, 0 for no limit")
	hostSummary := fset.Bool("host-summary", false, "compare attributed time with host busy time")
	verbose := fset.Bool("v", false, "log run statistics to stderr")
	if err := fset.Parse(args); err != nil {
		return runConfig{}, err
	}

	fail := func(err error) (runConfig, error) {
		fmt.Fprintf(stderr, "usercpu: %v\n", err)
		fset.Usage()
		return runConfig{}, err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return fail(err)
		}
		cfg = loaded
	}
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "interval":
			cfg.Interval = *interval
		case "proc-root":
			cfg.ProcRoot = *procRoot
		case "max-procs":
			cfg.MaxProcesses = *maxProcs
		case "max-users":
			cfg.MaxUsers = *maxUsers
		case "host-summary":
			cfg.HostSummary = *hostSummary
		case "v":
			cfg.Verbose = *verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		return fail(err)
	}

	if fset.NArg() != 1 {
		return fail(fmt.Errorf("expected exactly one duration argument, got %d", fset.NArg()))
	}
	duration, err := strconv.Atoi(fset.Arg(0))
	if err != nil || duration <= 0 {
		return fail(fmt.Errorf("duration must be a positive integer, got %q", fset.Arg(0)))
	}
	return runConfig{Config: cfg, duration: duration}, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, banner bool) int {
	cfg, err := parseConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	logger := log.New(stderr, "usercpu: ", log.LstdFlags)
	if banner {
		fmt.Fprint(stdout, ui.Banner())
	}

	hostReader, hostBefore := startHostSummary(cfg.Config, logger)

	s := sampler.New(proc.NewReader(cfg.ProcRoot),
		sampler.WithInterval(cfg.Interval),
		sampler.WithLimits(cfg.MaxProcesses, cfg.MaxUsers),
		sampler.WithLogger(logger),
	)
	if err := s.Run(ctx, cfg.duration); err != nil {
		if ctx.Err() != nil {
			logger.Printf("interrupted after %d of %d samples", s.Stats().Ticks, cfg.duration)
		} else {
			logger.Printf("monitoring stopped: %v", err)
		}
	}

	var opts report.Options
	if hostReader != nil {
		if after, err := hostReader.Snapshot(); err != nil {
			logger.Printf("host summary unavailable: %v", err)
		} else {
			usage := host.Between(hostBefore, after)
			opts.Host = &usage
		}
	}
	if err := report.Render(stdout, s.Users(), ticksPerSecond(), opts); err != nil {
		logger.Printf("writing report: %v", err)
	}

	if cfg.Verbose {
		st := s.Stats()
		logger.Printf("samples=%d users=%d scan_errors=%d skipped=%d reused=%d dropped_procs=%d dropped_users=%d",
			st.Ticks, len(s.Users()), st.ScanErrors, st.Skipped, st.Reused, st.DroppedProcs, st.DroppedUsers)
	}
	return exitOK
}

func startHostSummary(cfg config.Config, logger *log.Logger) (*host.Reader, host.Snapshot) {
	if !cfg.HostSummary {
		return nil, host.Snapshot{}
	}
	r, err := host.NewReader(cfg.ProcRoot)
	if err != nil {
		logger.Printf("host summary unavailable: %v", err)
		return nil, host.Snapshot{}
	}
	before, err := r.Snapshot()
	if err != nil {
		logger.Printf("host summary unavailable: %v", err)
		return nil, host.Snapshot{}
	}
	return r, before
}
