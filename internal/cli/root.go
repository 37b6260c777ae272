// Package cli wires the subcommands: validate connectivity and list
// backends, render the circuit, run end to end, retrieve a prior job,
// and browse local run history.
package cli

import (
	"context"
	"strings"
)

func Run(ctx context.Context, args []string) {
	if len(args) < 1 {
		printUsage()
		return
	}

	switch strings.TrimSpace(args[0]) {
	case "backends":
		runBackends(ctx, args[1:])
	case "circuit":
		runCircuit(args[1:])
	case "run":
		runGrover(ctx, args[1:])
	case "retrieve":
		runRetrieve(ctx, args[1:])
	case "history":
		runHistory(ctx, args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		printUsage()
	}
}
