package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Init     InitCmd     `cmd:"" help:"Create the funance config directory with a starter forecast document."`
	Check    CheckCmd    `cmd:"" help:"Parse, validate and project a forecast document."`
	Forecast ForecastCmd `cmd:"" help:"Project running balances for the accounts in a forecast document."`
	Runway   RunwayCmd   `cmd:"" help:"Report how many months of spending the emergency fund covers."`
	Invest   InvestCmd   `cmd:"" help:"Portfolio reports over exported cost-basis and holdings files."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging forecast documents."`
	Web      WebCmd      `cmd:"" help:"Start the dashboard API server."`
}
