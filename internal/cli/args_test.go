package cli

import (
	"testing"
	"time"
)

func TestParseArgs_FlagsAndPositionals(t *testing.T) {
	opts, positional := parseArgs([]string{
		"--config=/etc/grover/backends.json",
		"--results-dir=/tmp/out",
		"--timeout=45m",
		"job-abc",
	})

	if opts.configPath != "/etc/grover/backends.json" {
		t.Fatalf("unexpected config path: %q", opts.configPath)
	}
	if opts.resultsDir != "/tmp/out" {
		t.Fatalf("unexpected results dir: %q", opts.resultsDir)
	}
	if opts.timeout != 45*time.Minute {
		t.Fatalf("unexpected timeout: %v", opts.timeout)
	}
	if len(positional) != 1 || positional[0] != "job-abc" {
		t.Fatalf("unexpected positionals: %#v", positional)
	}
}

func TestParseArgs_Defaults(t *testing.T) {
	opts, positional := parseArgs(nil)
	if opts.configPath == "" || opts.resultsDir == "" {
		t.Fatalf("expected defaults, got %+v", opts)
	}
	if opts.timeout != 0 {
		t.Fatalf("expected zero timeout by default, got %v", opts.timeout)
	}
	if len(positional) != 0 {
		t.Fatalf("unexpected positionals: %#v", positional)
	}
}

func TestParseArgs_IgnoresBadTimeout(t *testing.T) {
	opts, _ := parseArgs([]string{"--timeout=soon"})
	if opts.timeout != 0 {
		t.Fatalf("bad duration should be ignored, got %v", opts.timeout)
	}
}
