package main

import (
	"context"
	"os"

	"github.com/qbitlab/grover-qpu/internal/cli"
)

func main() {
	cli.Run(context.Background(), os.Args[1:])
}
