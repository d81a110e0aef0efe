package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/kong"

	"github.com/funance/funance/forecast"
	"github.com/funance/funance/telemetry"
)

type CheckCmd struct {
	File FileOrStdin `help:"Forecast document (use '-' for stdin, defaults to the config directory)." arg:"" optional:""`
}

// Run validates the document and runs a full projection over the default
// window, so it catches scheduling and exchange errors, not just syntax.
func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.ResolveDefault(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		checkTimer = collector.Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, checkTimer)

		defer reportTelemetry()
	}

	doc, err := cmd.File.LoadDocument()
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, err)
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "document error")

		reportTelemetry()
		return NewCommandError(1)
	}

	start, end := forecast.DefaultWindow(time.Now())
	if _, err := forecast.FromSpec(runCtx, doc, start, end); err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, err)
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "projection error")

		reportTelemetry()
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, "Check passed")

	return nil
}
