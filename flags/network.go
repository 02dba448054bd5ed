package flags

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	NetworkNameFlag = cli.StringFlag{
		Name:  "network.name",
		Usage: "Network name stored in the artifact header",
	}
	NetworkIDFlag = cli.Uint64Flag{
		Name:  "network.id",
		Usage: "Network ID stored in the artifact header",
	}
	NetworkStartFlag = cli.Int64Flag{
		Name:  "network.start",
		Usage: "Network start time, unix seconds",
	}
)

// NetworkFlags covers the artifact header.
func NetworkFlags() []cli.Flag {
	return []cli.Flag{
		NetworkNameFlag,
		NetworkIDFlag,
		NetworkStartFlag,
	}
}
