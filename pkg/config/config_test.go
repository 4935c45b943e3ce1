package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("interval: 500ms\nmax_users: 16\nhost_summary: true\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Interval != 500*time.Millisecond {
		t.Fatalf("unexpected interval: %v", cfg.Interval)
	}
	if cfg.MaxUsers != 16 || !cfg.HostSummary {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.ProcRoot != DefaultProcRoot || cfg.MaxProcesses != 0 {
		t.Fatalf("unset keys should keep defaults: %+v", cfg)
	}
}

func TestParseEmptyYieldsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknownKey":    "duration: 5\n",
		"badInterval":   "interval: soon\n",
		"zeroInterval":  "interval: 0s\n",
		"emptyRoot":     "proc_root: \"\"\n",
		"negativeProcs": "max_processes: -1\n",
		"negativeUsers": "max_users: -2\n",
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	err := Config{MaxUsers: -1}.Validate()
	if err == nil {
		t.Fatalf("expected an error")
	}
	msg := err.Error()
	for _, want := range []string{"interval", "proc_root", "max_users"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q does not mention %s", msg, want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usercpu.yaml")
	if err := os.WriteFile(path, []byte("proc_root: /host/proc\nverbose: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ProcRoot != "/host/proc" || !cfg.Verbose {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
