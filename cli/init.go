package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/funance/funance/spec"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing forecast document without confirmation." short:"f"`
}

const starterEnv = "# Published Google Sheets CSV export with ticker,price rows.\n# GOOGLE_SHEETS_PRICES_URL=\n"

// Run creates the config directory with a starter document and .env file.
func (cmd *InitCmd) Run(ctx *kong.Context, globals *Globals) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	docPath := filepath.Join(dir, "forecast.toml")
	if _, err := os.Stat(docPath); err == nil && !cmd.Force {
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("Document %q already exists. Overwrite it?", docPath))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Keeping existing document: %s", pathStyle.Render(docPath))
			return nil
		}
	}

	if err := os.WriteFile(docPath, []byte(spec.Starter), 0600); err != nil {
		return fmt.Errorf("failed to write forecast document: %w", err)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Created %s", pathStyle.Render(docPath)))

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		if err := os.WriteFile(envPath, []byte(starterEnv), 0600); err != nil {
			return fmt.Errorf("failed to write .env: %w", err)
		}
		printSuccess(ctx.Stdout, fmt.Sprintf("Created %s", pathStyle.Render(envPath)))
	}

	printInfof(ctx.Stdout, "Edit the document, then run `funance forecast`")

	return nil
}
