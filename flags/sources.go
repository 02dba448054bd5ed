package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// Testnet richmen/poor source.
var (
	TestnetFlag = cli.BoolFlag{
		Name:  "testnet",
		Usage: "Generate richmen/poor testnet stakeholders (--testnet=false disables a preset's)",
	}
	TestnetRichmenFlag = cli.UintFlag{
		Name:  "testnet.richmen",
		Usage: "Number of richmen (primary keys with VSS certificates)",
	}
	TestnetPoorFlag = cli.UintFlag{
		Name:  "testnet.poor",
		Usage: "Number of poor stakeholders",
	}
	TestnetPatternFlag = cli.StringFlag{
		Name:  "testnet.keyfiles",
		Usage: "Keyfile path pattern, {} is replaced by the stakeholder index",
	}
	TestnetStakeFlag = cli.Uint64Flag{
		Name:  "testnet.stake",
		Usage: "Total stake split between richmen and poor",
	}
	TestnetRichShareFlag = cli.UintFlag{
		Name:  "testnet.richshare",
		Usage: "Richmen pool in basis points of the total stake (0..10000)",
	}
	TestnetRemainderFlag = cli.StringFlag{
		Name:  "testnet.remainder",
		Usage: "Stakeholder absorbing division remainders (first|last)",
	}
	TestnetCertExpiryFlag = cli.UintFlag{
		Name:  "testnet.certexpiry",
		Usage: "Epoch after which richmen VSS certificates expire",
	}
)

// Voucher dump source.
var (
	AvvmInputFlag = cli.StringFlag{
		Name:  "avvm.utxo",
		Usage: "Voucher dump JSON to import",
	}
	AvvmBlacklistFlag = cli.StringFlag{
		Name:  "avvm.blacklist",
		Usage: "File of voucher keys excluded from import, one per line",
	}
	AvvmHolderFlag = cli.StringFlag{
		Name:  "avvm.holder",
		Usage: "Keyfile of the holder countersigning voucher certificates",
	}
	AvvmHolderPasswordFlag = cli.StringFlag{
		Name:  "avvm.holder.password",
		Usage: "Password file of the holder keyfile (default: --password)",
	}
	AvvmRandCertsFlag = cli.BoolFlag{
		Name:  "avvm.randcerts",
		Usage: "Attach a fresh VSS certificate to every voucher address",
	}
	AvvmCertExpiryFlag = cli.UintFlag{
		Name:  "avvm.certexpiry",
		Usage: "Epoch after which voucher VSS certificates expire",
	}
)

// Fake voucher source.
var (
	FakeAvvmFlag = cli.BoolFlag{
		Name:  "fakeavvm",
		Usage: "Generate synthetic vouchers (--fakeavvm=false disables a preset's)",
	}
	FakeAvvmCountFlag = cli.UintFlag{
		Name:  "fakeavvm.count",
		Usage: "Number of synthetic vouchers",
	}
	FakeAvvmPatternFlag = cli.StringFlag{
		Name:  "fakeavvm.seeds",
		Usage: "Seed file path pattern, {} is replaced by the voucher index",
	}
	FakeAvvmStakeFlag = cli.Uint64Flag{
		Name:  "fakeavvm.stake",
		Usage: "Stake of every synthetic voucher",
	}
)

// SourceFlags returns the flags of all stake sources.
func SourceFlags() []cli.Flag {
	return []cli.Flag{
		TestnetFlag,
		TestnetRichmenFlag,
		TestnetPoorFlag,
		TestnetPatternFlag,
		TestnetStakeFlag,
		TestnetRichShareFlag,
		TestnetRemainderFlag,
		TestnetCertExpiryFlag,
		AvvmInputFlag,
		AvvmBlacklistFlag,
		AvvmHolderFlag,
		AvvmHolderPasswordFlag,
		AvvmRandCertsFlag,
		AvvmCertExpiryFlag,
		FakeAvvmFlag,
		FakeAvvmCountFlag,
		FakeAvvmPatternFlag,
		FakeAvvmStakeFlag,
	}
}
