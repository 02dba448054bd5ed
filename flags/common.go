package flags

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	ConfigFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	PresetFlag = cli.StringFlag{
		Name:  "preset",
		Usage: "Generation preset (default|devnet|testnet|staging)",
	}

	VerbosityFlag = cli.IntFlag{
		Name:  "log.verbosity",
		Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
		Value: 3,
	}
	LogFormatFlag = cli.StringFlag{
		Name:  "log.format",
		Usage: "Log output format (text|json)",
		Value: "text",
	}
	LogColorFlag = cli.BoolFlag{
		Name:  "log.color",
		Usage: "Enable colored log output",
	}
	SentryDSNFlag = cli.StringFlag{
		Name:  "log.sentry",
		Usage: "Sentry DSN receiving error level log entries",
	}
)

// CommonFlags returns the flags shared by every command.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFileFlag,
		VerbosityFlag,
		LogFormatFlag,
		LogColorFlag,
		SentryDSNFlag,
	}
}
