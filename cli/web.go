package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/funance/funance/telemetry"
	"github.com/funance/funance/web"
)

type WebCmd struct {
	File  string `help:"Forecast document to serve (defaults to the config directory)." arg:"" optional:""`
	Port  int    `help:"Port to listen on." default:"8080"`
	Watch bool   `help:"Reload the document when it changes on disk." short:"w" default:"true" negatable:""`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	specFile := cmd.File
	if specFile == "" {
		path, err := DefaultDocumentPath()
		if err != nil {
			return err
		}
		specFile = path
	}

	specFile, err := filepath.Abs(specFile)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if _, err := os.Stat(specFile); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document does not exist: %s (run `funance init` to create one)", specFile)
		}
		return fmt.Errorf("failed to access document: %w", err)
	}

	version := Version
	if version == "" {
		version = "dev"
	}

	server := web.New(cmd.Port, specFile)
	server.Version = version
	server.WatchEnabled = cmd.Watch

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving forecast: %s", pathStyle.Render(specFile))

	return server.Start(runCtx)
}
