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

	Check    CheckCmd    `cmd:"" help:"Parse and load a book file, reporting any errors."`
	Balances BalancesCmd `cmd:"" help:"Show the account and category hierarchies with their balances."`
	Convert  ConvertCmd  `cmd:"" help:"Convert an amount between currencies through the rate graph."`
	Fmt      FmtCmd      `cmd:"" help:"Format a book file to align amounts and currencies."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging book files."`
	Web      WebCmd      `cmd:"" help:"Start a web server."`
}
