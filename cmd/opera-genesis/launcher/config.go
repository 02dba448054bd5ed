package launcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-genesis/flags"
	"github.com/rony4d/go-opera-genesis/generator"
	"github.com/rony4d/go-opera-genesis/generator/avvm"
	"github.com/rony4d/go-opera-genesis/generator/testnet"
	"github.com/rony4d/go-opera-genesis/integration"
	"github.com/rony4d/go-opera-genesis/inter"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

// Config aggregates everything a generation run needs. Its TOML form is what
// --config reads.
type Config struct {
	Logging  LoggingConfig
	Network  NetworkConfig
	Output   OutputConfig
	Testnet  TestnetConfig
	Avvm     AvvmConfig
	FakeAvvm FakeAvvmConfig
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
	SentryDSN string
}

type NetworkConfig struct {
	Name      string
	NetworkID uint64
	StartTime int64 // unix seconds
}

type OutputConfig struct {
	Path          string
	Workers       int
	Deterministic bool
	Seed          int64
	Preview       int
	PasswordFile  string
	StandardKDF   bool
}

type TestnetConfig struct {
	Enabled         bool
	Richmen         uint32
	Poor            uint32
	Pattern         string
	TotalStake      uint64
	RichmenShareBps uint32
	Remainder       string
	CertExpiry      uint32
}

type AvvmConfig struct {
	Enabled            bool
	Input              string
	Blacklist          string
	HolderKeyfile      string
	HolderPasswordFile string
	RandCerts          bool
	CertExpiry         uint32
}

type FakeAvvmConfig struct {
	Enabled     bool
	Count       uint32
	SeedPattern string
	Stake       uint64
}

// makeAllConfigs merges, lowest precedence first: defaults, the preset named
// by --preset, the --config file, and the remaining flags.
func makeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if ctx.IsSet(flags.PresetFlag.Name) {
		preset, err := integration.GetPresetByName(ctx.String(flags.PresetFlag.Name))
		if err != nil {
			return cfg, err
		}
		applyPreset(&cfg, preset)
	}

	if file := ctx.String(flags.ConfigFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	applyCLIOverrides(ctx, &cfg)
	return cfg, nil
}

// loadConfigFile decodes a TOML file over cfg. Keys that match no field are
// rejected so a typo never silently falls back to a default.
func loadConfigFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// dumpConfig writes cfg as TOML.
func dumpConfig(cfg Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.IsSet(flags.VerbosityFlag.Name) {
		cfg.Logging.Verbosity = ctx.Int(flags.VerbosityFlag.Name)
	}
	if ctx.IsSet(flags.LogFormatFlag.Name) {
		cfg.Logging.Format = ctx.String(flags.LogFormatFlag.Name)
	}
	if ctx.IsSet(flags.LogColorFlag.Name) {
		cfg.Logging.Color = ctx.Bool(flags.LogColorFlag.Name)
	}
	if ctx.IsSet(flags.SentryDSNFlag.Name) {
		cfg.Logging.SentryDSN = ctx.String(flags.SentryDSNFlag.Name)
	}

	if ctx.IsSet(flags.NetworkNameFlag.Name) {
		cfg.Network.Name = ctx.String(flags.NetworkNameFlag.Name)
	}
	if ctx.IsSet(flags.NetworkIDFlag.Name) {
		cfg.Network.NetworkID = ctx.Uint64(flags.NetworkIDFlag.Name)
	}
	if ctx.IsSet(flags.NetworkStartFlag.Name) {
		cfg.Network.StartTime = ctx.Int64(flags.NetworkStartFlag.Name)
	}

	if ctx.IsSet(flags.OutputFlag.Name) {
		cfg.Output.Path = ctx.String(flags.OutputFlag.Name)
	}
	if ctx.IsSet(flags.WorkersFlag.Name) {
		cfg.Output.Workers = ctx.Int(flags.WorkersFlag.Name)
	}
	if ctx.IsSet(flags.SeedFlag.Name) {
		cfg.Output.Deterministic = true
		cfg.Output.Seed = ctx.Int64(flags.SeedFlag.Name)
	}
	if ctx.IsSet(flags.PreviewFlag.Name) {
		cfg.Output.Preview = ctx.Int(flags.PreviewFlag.Name)
	}
	if ctx.IsSet(flags.PasswordFileFlag.Name) {
		cfg.Output.PasswordFile = ctx.String(flags.PasswordFileFlag.Name)
	}
	if ctx.IsSet(flags.StandardKDFFlag.Name) {
		cfg.Output.StandardKDF = ctx.Bool(flags.StandardKDFFlag.Name)
	}

	if ctx.IsSet(flags.TestnetFlag.Name) {
		cfg.Testnet.Enabled = ctx.Bool(flags.TestnetFlag.Name)
	}
	if ctx.IsSet(flags.TestnetRichmenFlag.Name) {
		cfg.Testnet.Richmen = uint32(ctx.Uint(flags.TestnetRichmenFlag.Name))
	}
	if ctx.IsSet(flags.TestnetPoorFlag.Name) {
		cfg.Testnet.Poor = uint32(ctx.Uint(flags.TestnetPoorFlag.Name))
	}
	if ctx.IsSet(flags.TestnetPatternFlag.Name) {
		cfg.Testnet.Pattern = ctx.String(flags.TestnetPatternFlag.Name)
	}
	if ctx.IsSet(flags.TestnetStakeFlag.Name) {
		cfg.Testnet.TotalStake = ctx.Uint64(flags.TestnetStakeFlag.Name)
	}
	if ctx.IsSet(flags.TestnetRichShareFlag.Name) {
		cfg.Testnet.RichmenShareBps = uint32(ctx.Uint(flags.TestnetRichShareFlag.Name))
	}
	if ctx.IsSet(flags.TestnetRemainderFlag.Name) {
		cfg.Testnet.Remainder = ctx.String(flags.TestnetRemainderFlag.Name)
	}
	if ctx.IsSet(flags.TestnetCertExpiryFlag.Name) {
		cfg.Testnet.CertExpiry = uint32(ctx.Uint(flags.TestnetCertExpiryFlag.Name))
	}

	if ctx.IsSet(flags.AvvmInputFlag.Name) {
		cfg.Avvm.Enabled = true
		cfg.Avvm.Input = ctx.String(flags.AvvmInputFlag.Name)
	}
	if ctx.IsSet(flags.AvvmBlacklistFlag.Name) {
		cfg.Avvm.Blacklist = ctx.String(flags.AvvmBlacklistFlag.Name)
	}
	if ctx.IsSet(flags.AvvmHolderFlag.Name) {
		cfg.Avvm.HolderKeyfile = ctx.String(flags.AvvmHolderFlag.Name)
	}
	if ctx.IsSet(flags.AvvmHolderPasswordFlag.Name) {
		cfg.Avvm.HolderPasswordFile = ctx.String(flags.AvvmHolderPasswordFlag.Name)
	}
	if ctx.IsSet(flags.AvvmRandCertsFlag.Name) {
		cfg.Avvm.RandCerts = ctx.Bool(flags.AvvmRandCertsFlag.Name)
	}
	if ctx.IsSet(flags.AvvmCertExpiryFlag.Name) {
		cfg.Avvm.CertExpiry = uint32(ctx.Uint(flags.AvvmCertExpiryFlag.Name))
	}

	if ctx.IsSet(flags.FakeAvvmFlag.Name) {
		cfg.FakeAvvm.Enabled = ctx.Bool(flags.FakeAvvmFlag.Name)
	}
	if ctx.IsSet(flags.FakeAvvmCountFlag.Name) {
		cfg.FakeAvvm.Count = uint32(ctx.Uint(flags.FakeAvvmCountFlag.Name))
	}
	if ctx.IsSet(flags.FakeAvvmPatternFlag.Name) {
		cfg.FakeAvvm.SeedPattern = ctx.String(flags.FakeAvvmPatternFlag.Name)
	}
	if ctx.IsSet(flags.FakeAvvmStakeFlag.Name) {
		cfg.FakeAvvm.Stake = ctx.Uint64(flags.FakeAvvmStakeFlag.Name)
	}
}

// Validate reports every invalid setting at once. Source specific checks run
// later, in generator.Options.Validate.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Logging.Verbosity < 0 || c.Logging.Verbosity > 5 {
		result = multierror.Append(result, fmt.Errorf("log verbosity %d out of range 0..5", c.Logging.Verbosity))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		result = multierror.Append(result, fmt.Errorf("unknown log format %q (valid: text, json)", c.Logging.Format))
	}
	if c.Output.Workers < 0 {
		result = multierror.Append(result, errors.New("workers must not be negative"))
	}
	if c.Testnet.Enabled {
		if _, err := genesis.ParseRemainderPolicy(c.Testnet.Remainder); err != nil {
			result = multierror.Append(result, err)
		}
		if _, err := coin.FromUint64(c.Testnet.TotalStake); err != nil {
			result = multierror.Append(result, fmt.Errorf("testnet stake: %w", err))
		}
	}
	if c.FakeAvvm.Enabled {
		if _, err := coin.FromUint64(c.FakeAvvm.Stake); err != nil {
			result = multierror.Append(result, fmt.Errorf("fake voucher stake: %w", err))
		}
	}
	return result.ErrorOrNil()
}

// generatorOptions translates a validated Config.
func (c Config) generatorOptions() (generator.Options, error) {
	if err := c.Validate(); err != nil {
		return generator.Options{}, err
	}
	opts := generator.Options{
		Network: genesis.Network{
			Name:      c.Network.Name,
			NetworkID: c.Network.NetworkID,
			StartTime: inter.FromUnix(c.Network.StartTime),
		},
		Output:      cleanPath(c.Output.Path),
		Workers:     c.Output.Workers,
		Preview:     c.Output.Preview,
		StandardKDF: c.Output.StandardKDF,
	}
	var err error
	if opts.Passphrase, err = readPassword(c.Output.PasswordFile); err != nil {
		return generator.Options{}, err
	}
	if c.Output.Deterministic {
		seed := c.Output.Seed
		opts.Seed = &seed
	}
	if c.Testnet.Enabled {
		remainder, _ := genesis.ParseRemainderPolicy(c.Testnet.Remainder)
		opts.Testnet = &testnet.Options{
			Richmen:         c.Testnet.Richmen,
			Poor:            c.Testnet.Poor,
			Pattern:         c.Testnet.Pattern,
			TotalStake:      coin.Coin(c.Testnet.TotalStake),
			RichmenShareBps: c.Testnet.RichmenShareBps,
			Remainder:       remainder,
			CertExpiry:      idx.Epoch(c.Testnet.CertExpiry),
		}
	}
	if c.Avvm.Enabled {
		holderPassphrase, err := readPassword(c.Avvm.HolderPasswordFile)
		if err != nil {
			return generator.Options{}, err
		}
		opts.Avvm = &avvm.Options{
			HolderPassphrase: holderPassphrase,
			Input:            c.Avvm.Input,
			Blacklist:        c.Avvm.Blacklist,
			HolderKeyfile:    c.Avvm.HolderKeyfile,
			RandCerts:        c.Avvm.RandCerts,
			CertExpiry:       idx.Epoch(c.Avvm.CertExpiry),
		}
	}
	if c.FakeAvvm.Enabled {
		opts.FakeAvvm = &avvm.FakeOptions{
			Count:       c.FakeAvvm.Count,
			SeedPattern: c.FakeAvvm.SeedPattern,
			Stake:       coin.Coin(c.FakeAvvm.Stake),
		}
	}
	return opts, nil
}

// cleanPath cleans a configured path but keeps an empty one empty, so a
// missing setting is reported instead of turning into ".".
func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// readPassword returns the first line of a password file. An empty path
// yields an empty password.
func readPassword(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read password file %s: %w", path, err)
	}
	line := strings.SplitN(string(data), "\n", 2)[0]
	return strings.TrimRight(line, "\r"), nil
}
