package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iudanet/tradetrack/internal/client/cli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	opts := cli.NewOptions(fmt.Sprintf("%s (built %s, commit %s)", Version, BuildDate, GitCommit))

	if err := cli.Execute(context.Background(), opts, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
