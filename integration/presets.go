// Package integration provides named generation presets. A preset bundles
// the network header and stake source sizes of a typical genesis (a local
// devnet, a public testnet, a staging rehearsal) so operators start from a
// known shape instead of setting every flag by hand.
//
// Usage:
//
//	preset, err := integration.GetPresetByName("devnet")
//
// The launcher applies a preset on top of its defaults and below the config
// file and command line flags.
package integration

import (
	"fmt"

	"github.com/rony4d/go-opera-genesis/inter"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

// Unit is one whole coin in the smallest unit.
const Unit coin.Coin = 1000000

// PresetConfig captures the parameters that vary between presets. Zero counts
// disable the corresponding stake source.
type PresetConfig struct {
	Name            string          // identifier used by --preset
	Network         genesis.Network // artifact header
	Richmen         uint32          // primary stakeholders, each with a VSS certificate
	Poor            uint32          // ordinary stakeholders
	TotalStake      coin.Coin       // split between richmen and poor
	RichmenShareBps uint32          // richmen pool in basis points of TotalStake
	FakeAvvmCount   uint32          // synthetic vouchers
	FakeAvvmStake   coin.Coin       // stake of each synthetic voucher
	Deterministic   bool            // derive keys from a seed so runs are reproducible
}

// DefaultPreset is a small single-source testnet with random keys.
func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:            "default",
		Network:         genesis.FakeNetwork(),
		Richmen:         4,
		Poor:            12,
		TotalStake:      1000000 * Unit,
		RichmenShareBps: 7000,
	}
}

// DevnetPreset is meant for laptops and CI: few stakeholders, a handful of
// fake vouchers, and reproducible keys so fixtures can be committed.
//
// Never use a devnet genesis for anything holding value: its keys follow from
// the seed.
func DevnetPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "devnet"
	cfg.Richmen = 1
	cfg.Poor = 3
	cfg.TotalStake = 100000 * Unit
	cfg.FakeAvvmCount = 4
	cfg.FakeAvvmStake = 1000 * Unit
	cfg.Deterministic = true
	return cfg
}

// TestnetPreset sizes a public test network.
func TestnetPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "testnet"
	cfg.Network = genesis.Network{
		Name:      "testnet",
		NetworkID: genesis.TestNetworkID,
		StartTime: inter.FromUnix(1609459200),
	}
	cfg.Richmen = 7
	cfg.Poor = 100
	cfg.TotalStake = 30000000 * Unit
	cfg.RichmenShareBps = 6000
	return cfg
}

// StagingPreset rehearses a launch: testnet sizing plus synthetic vouchers
// standing in for the real dump.
func StagingPreset() PresetConfig {
	cfg := TestnetPreset()
	cfg.Name = "staging"
	cfg.Network.Name = "staging"
	cfg.FakeAvvmCount = 1000
	cfg.FakeAvvmStake = 5000 * Unit
	return cfg
}

// PresetNames lists the names GetPresetByName accepts.
func PresetNames() []string {
	return []string{"default", "devnet", "testnet", "staging"}
}

// GetPresetByName looks up a preset by its identifier.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "default", "":
		return DefaultPreset(), nil
	case "devnet":
		return DevnetPreset(), nil
	case "testnet":
		return TestnetPreset(), nil
	case "staging":
		return StagingPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: default, devnet, testnet, staging)", name)
	}
}
