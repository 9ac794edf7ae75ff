// Package main provides the Slack bot server entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/garyellow/varname-slackbot/internal/app"
	"github.com/garyellow/varname-slackbot/internal/config"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	application, err := app.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	return application.Run(ctx)
}
