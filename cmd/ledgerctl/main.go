package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chris/donation-ledger/pkg/bootstrap"
	"github.com/chris/donation-ledger/pkg/config"
)

func main() {
	root := newRootCmd(openFromEnv)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openFromEnv(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Logs go to stderr so command output stays machine readable.
	return bootstrap.New(ctx, cfg, cfg.NewLogger(os.Stderr))
}
