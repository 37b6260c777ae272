package cli

import (
	"strings"
	"time"

	"github.com/qbitlab/grover-qpu/internal/config"
)

type cliOptions struct {
	configPath string
	resultsDir string
	timeout    time.Duration
}

func parseArgs(args []string) (cliOptions, []string) {
	opts := cliOptions{
		configPath: config.DefaultPath,
		resultsDir: "results",
	}
	positional := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimSpace(strings.TrimPrefix(arg, "--config="))
		case strings.HasPrefix(arg, "--results-dir="):
			opts.resultsDir = strings.TrimSpace(strings.TrimPrefix(arg, "--results-dir="))
		case strings.HasPrefix(arg, "--timeout="):
			if d, err := time.ParseDuration(strings.TrimPrefix(arg, "--timeout=")); err == nil && d > 0 {
				opts.timeout = d
			}
		default:
			positional = append(positional, arg)
		}
	}
	return opts, positional
}
