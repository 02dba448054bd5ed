package launcher

import (
	"path/filepath"
	"runtime"

	"github.com/rony4d/go-opera-genesis/generator"
	"github.com/rony4d/go-opera-genesis/generator/keygen"
	"github.com/rony4d/go-opera-genesis/integration"
)

// DefaultGenesisFile is the artifact name used when no output is given.
const DefaultGenesisFile = "genesis.dat"

// defaultConfig starts from the default preset, so a bare `generate` produces
// a small random testnet in the working directory.
func defaultConfig() Config {
	cfg := Config{
		Logging: LoggingConfig{
			Verbosity: 3,      // info
			Format:    "text", // text or json
			Color:     false,  // ANSI colors help on terminals, not in log files
		},
		Output: OutputConfig{
			Path:    DefaultGenesisFile,
			Workers: runtime.NumCPU(),
			Preview: generator.DefaultPreview,
		},
		Testnet: TestnetConfig{
			Pattern:   filepath.Join("keys", "testnet", keygen.Placeholder+".key"),
			Remainder: "first",
		},
		FakeAvvm: FakeAvvmConfig{
			SeedPattern: filepath.Join("keys", "fakeavvm", keygen.Placeholder+".seed"),
		},
	}
	applyPreset(&cfg, integration.DefaultPreset())
	return cfg
}

// applyPreset copies the preset's network header and source sizes into cfg.
// Paths, logging and the voucher dump are never touched by presets.
func applyPreset(cfg *Config, p integration.PresetConfig) {
	cfg.Network = NetworkConfig{
		Name:      p.Network.Name,
		NetworkID: p.Network.NetworkID,
		StartTime: p.Network.StartTime.Unix(),
	}

	cfg.Testnet.Enabled = p.Richmen+p.Poor > 0
	cfg.Testnet.Richmen = p.Richmen
	cfg.Testnet.Poor = p.Poor
	cfg.Testnet.TotalStake = p.TotalStake.Uint64()
	cfg.Testnet.RichmenShareBps = p.RichmenShareBps

	cfg.FakeAvvm.Enabled = p.FakeAvvmCount > 0
	cfg.FakeAvvm.Count = p.FakeAvvmCount
	cfg.FakeAvvm.Stake = p.FakeAvvmStake.Uint64()

	cfg.Output.Deterministic = p.Deterministic
}
