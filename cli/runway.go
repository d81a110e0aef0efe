package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/funance/funance/forecast"
)

type RunwayCmd struct {
	File FileOrStdin `help:"Forecast document (use '-' for stdin, defaults to the config directory)." arg:"" optional:""`
}

func (cmd *RunwayCmd) Run(ctx *kong.Context, globals *Globals) error {
	doc, err := cmd.File.LoadDocument()
	if err != nil {
		return err
	}

	if doc.Forecast.EmergencyFund == nil {
		printError(ctx.Stderr, "no emergency_fund declared in the document")
		return NewCommandError(1)
	}

	report, err := forecast.NewRunwayReport(doc.Forecast.EmergencyFund)
	if err != nil {
		return err
	}

	for _, source := range report.Sources {
		_, _ = fmt.Fprintf(ctx.Stdout, "%-24s %12s\n", source.Name, source.Value.StringFixed(2))
	}
	_, _ = fmt.Fprintf(ctx.Stdout, "%-24s %12s\n", headerStyle.Render("total"), report.Total.StringFixed(2))
	_, _ = fmt.Fprintln(ctx.Stdout)

	months := report.ActualMonths.StringFixed(1)
	goal := report.GoalMonths.StringFixed(1)
	if report.MeetsGoal() {
		printSuccess(ctx.Stdout, fmt.Sprintf("Runway of %s months meets the %s month goal", months, goal))
	} else {
		printError(ctx.Stdout, fmt.Sprintf("Runway of %s months is short of the %s month goal", months, goal))
	}

	return nil
}
