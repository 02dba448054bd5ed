package flags

import (
	"gopkg.in/urfave/cli.v1"
)

var (
	OutputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "Path of the genesis artifact",
	}
	WorkersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "Parallel key generation workers (default: number of CPUs)",
	}
	SeedFlag = cli.Int64Flag{
		Name:  "seed",
		Usage: "Derive every key from this seed (reproducible, test networks only)",
	}
	PreviewFlag = cli.IntFlag{
		Name:  "preview",
		Usage: "Number of addresses logged per stake source",
	}
	PasswordFileFlag = cli.StringFlag{
		Name:  "password",
		Usage: "Password file encrypting generated keyfiles (default: a fake password)",
	}
	StandardKDFFlag = cli.BoolFlag{
		Name:  "standardkdf",
		Usage: "Encrypt keyfiles with the full scrypt cost instead of the light one",
	}
)

// OutputFlags control where and how the artifact is produced.
func OutputFlags() []cli.Flag {
	return []cli.Flag{
		PresetFlag,
		OutputFlag,
		WorkersFlag,
		SeedFlag,
		PreviewFlag,
		PasswordFileFlag,
		StandardKDFFlag,
	}
}
