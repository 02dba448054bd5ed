// Package genesis defines the genesis artifact: the stake distribution every
// node must derive bit for bit before it validates any block.
//
// Stake sources each produce a Fragment. Build folds them with Merge, which
// refuses to let two sources claim the same address, checks the total against
// coin.MaxCoin and validates certificates. Persister then encodes the result,
// decodes it again and only writes the artifact when both values are equal.
package genesis

import (
	"github.com/rony4d/go-opera-genesis/inter"
)

// Network identification used for generated artifacts.
const (
	MainNetworkID uint64 = 0xfa
	TestNetworkID uint64 = 0xfa2
	FakeNetworkID uint64 = 0xfa3
)

// MaxNetworkNameLen bounds the name stored in the artifact header.
const MaxNetworkNameLen = 64

// Network is the artifact header.
type Network struct {
	Name      string
	NetworkID uint64
	StartTime inter.Timestamp
}

// FakeNetwork returns the header used for local test networks.
func FakeNetwork() Network {
	return Network{
		Name:      "fakenet",
		NetworkID: FakeNetworkID,
		StartTime: inter.FromUnix(1608600000),
	}
}
