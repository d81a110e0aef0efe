package cli

import (
	"context"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/funance/funance/forecast"
)

// DoctorCmd provides doctor utilities for debugging forecast documents.
type DoctorCmd struct {
	Parse  ParseCmd  `cmd:"" help:"Dump the parsed forecast document."`
	Expand ExpandCmd `cmd:"" help:"Dump every scheduled transaction expanded over the window."`
}

// ParseCmd dumps the parsed document without validating projections.
type ParseCmd struct {
	File FileOrStdin `help:"Forecast document (use '-' for stdin, defaults to the config directory)." arg:"" optional:""`
}

func (cmd *ParseCmd) Run(ctx *kong.Context, globals *Globals) error {
	doc, err := cmd.File.LoadDocument()
	if err != nil {
		return err
	}

	repr.Println(doc)
	return nil
}

// ExpandCmd builds the projection and dumps the resolved transactions of
// each account in date order, payments from dynamic balance lookups
// included.
type ExpandCmd struct {
	File  FileOrStdin `help:"Forecast document (use '-' for stdin, defaults to the config directory)." arg:"" optional:""`
	Start string      `help:"First projected date (YYYY-MM-DD, defaults to tomorrow)."`
	End   string      `help:"Last projected date (YYYY-MM-DD, defaults to one year out)."`
}

func (cmd *ExpandCmd) Run(ctx *kong.Context, globals *Globals) error {
	doc, err := cmd.File.LoadDocument()
	if err != nil {
		return err
	}

	start, end, err := parseWindow(cmd.Start, cmd.End)
	if err != nil {
		return err
	}

	projector, err := forecast.FromSpec(context.Background(), doc, start, end)
	if err != nil {
		return err
	}

	for _, account := range projector.Accounts().All() {
		_, _ = fmt.Fprintf(ctx.Stdout, "%s\n", headerStyle.Render(account.ID))
		for _, t := range account.Transactions() {
			repr.Println(t)
		}
	}

	return nil
}
