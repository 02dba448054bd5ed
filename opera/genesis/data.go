package genesis

import (
	"fmt"

	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
)

// Data is the genesis ledger state. It is produced once by Build and must
// not be modified afterwards.
type Data struct {
	Network Network
	Fragment
}

// Build folds fragments left to right with Merge and validates the result.
// Empty fragments are skipped; at least one source must contribute.
func Build(network Network, fragments ...Fragment) (*Data, error) {
	merged := Empty()
	sources := 0
	for i, f := range fragments {
		if f.IsEmpty() {
			continue
		}
		sources++
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("stake source %d: %w", i, err)
		}
		var err error
		if merged, err = Merge(merged, f); err != nil {
			return nil, err
		}
	}
	if sources == 0 {
		return nil, ErrNoStakeSourceConfigured
	}
	g := &Data{Network: network, Fragment: merged}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the header, the merged fragment and the stake total.
func (g *Data) Validate() error {
	if len(g.Network.Name) > MaxNetworkNameLen {
		return fmt.Errorf("network name longer than %d bytes", MaxNetworkNameLen)
	}
	if err := g.Fragment.Validate(); err != nil {
		return err
	}
	_, err := g.TotalStake()
	return err
}

// TotalStake sums every allocation and fails with ErrStakeOverflow when the
// sum exceeds coin.MaxCoin.
func (g *Data) TotalStake() (coin.Coin, error) {
	return g.Fragment.TotalStake()
}

// Stakeholders returns the number of addresses.
func (g *Data) Stakeholders() int {
	return len(g.Addresses)
}

// Preview returns up to n addresses in generation order.
func (g *Data) Preview(n int) []address.Address {
	if n > len(g.Addresses) {
		n = len(g.Addresses)
	}
	return g.Addresses[:n]
}

// Equal compares header and fragment.
func (g *Data) Equal(o *Data) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.Network == o.Network && g.Fragment.Equal(o.Fragment)
}
