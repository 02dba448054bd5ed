package genesis

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
)

// DistributionKind tags the StakeDistribution variants in the artifact.
type DistributionKind uint8

const (
	ExplicitKind DistributionKind = 1
	RichPoorKind DistributionKind = 2
)

// StakeDistribution describes how stake is assigned to the ordered addresses
// of a fragment. Every variant can be flattened to ExplicitStakes.
type StakeDistribution interface {
	Kind() DistributionKind
	// Stakes flattens the distribution against the fragment's addresses.
	Stakes(addrs []address.Address) (ExplicitStakes, error)
	// Holders is the number of addresses the distribution expects.
	Holders() int
}

// ExplicitStakes assigns an exact amount to each address.
type ExplicitStakes map[address.Address]coin.Coin

func (ExplicitStakes) Kind() DistributionKind { return ExplicitKind }

func (s ExplicitStakes) Holders() int { return len(s) }

// Stakes returns a copy of s after checking that it covers exactly addrs.
func (s ExplicitStakes) Stakes(addrs []address.Address) (ExplicitStakes, error) {
	if len(addrs) != len(s) {
		return nil, fmt.Errorf("explicit stakes cover %d addresses, fragment lists %d", len(s), len(addrs))
	}
	out := make(ExplicitStakes, len(s))
	for _, a := range addrs {
		c, ok := s[a]
		if !ok {
			return nil, fmt.Errorf("address %s has no stake entry", a)
		}
		if _, dup := out[a]; dup {
			return nil, &DuplicateAddressError{Address: a}
		}
		out[a] = c
	}
	return out, nil
}

// Total sums every entry with overflow checks.
func (s ExplicitStakes) Total() (coin.Coin, error) {
	var total coin.Coin
	for _, c := range s {
		var err error
		if total, err = coin.Add(total, c); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStakeOverflow, err)
		}
	}
	return total, nil
}

// Sorted returns the addresses of s in canonical order.
func (s ExplicitStakes) Sorted() []address.Address {
	addrs := make([]address.Address, 0, len(s))
	for a := range s {
		addrs = append(addrs, a)
	}
	address.Sort(addrs)
	return addrs
}

// Equal compares two explicit mappings; nil and empty are equal.
func (s ExplicitStakes) Equal(o ExplicitStakes) bool {
	if len(s) != len(o) {
		return false
	}
	for a, c := range s {
		if oc, ok := o[a]; !ok || oc != c {
			return false
		}
	}
	return true
}

// RemainderPolicy decides which stakeholder of a class absorbs the remainder
// left by integer division.
type RemainderPolicy uint8

const (
	RemainderToFirst RemainderPolicy = 0
	RemainderToLast  RemainderPolicy = 1
)

// Valid reports whether p is a known policy.
func (p RemainderPolicy) Valid() bool {
	return p == RemainderToFirst || p == RemainderToLast
}

func (p RemainderPolicy) String() string {
	switch p {
	case RemainderToFirst:
		return "first"
	case RemainderToLast:
		return "last"
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

// ParseRemainderPolicy accepts "first" or "last".
func ParseRemainderPolicy(s string) (RemainderPolicy, error) {
	switch s {
	case "", "first":
		return RemainderToFirst, nil
	case "last":
		return RemainderToLast, nil
	}
	return 0, fmt.Errorf("unknown remainder policy %q (valid: first, last)", s)
}

// MaxShareBps is 100% in basis points.
const MaxShareBps = 10000

var ErrEmptyRichPoor = errors.New("rich/poor distribution has no stakeholders")

// RichPoor splits TotalStake between Richmen and Poor stakeholders. The
// fragment's first Richmen addresses are the richmen, the rest are poor.
//
// The poor pool is floor(TotalStake * (10000 - RichmenShareBps) / 10000) and
// the richmen pool takes everything else, so rounding favours the richmen.
// Within a class each holder gets floor(pool / count) and the remainder goes
// to the holder selected by Remainder. Allocations always sum to TotalStake.
type RichPoor struct {
	Richmen         uint32
	Poor            uint32
	TotalStake      coin.Coin
	RichmenShareBps uint32
	Remainder       RemainderPolicy
}

func (RichPoor) Kind() DistributionKind { return RichPoorKind }

func (d RichPoor) Holders() int { return int(d.Richmen) + int(d.Poor) }

// Validate checks the parameters.
func (d RichPoor) Validate() error {
	if d.Richmen == 0 && d.Poor == 0 {
		return ErrEmptyRichPoor
	}
	if d.RichmenShareBps > MaxShareBps {
		return fmt.Errorf("richmen share %d bps exceeds %d", d.RichmenShareBps, MaxShareBps)
	}
	if d.TotalStake > coin.MaxCoin {
		return fmt.Errorf("%w: total %d", ErrStakeOverflow, d.TotalStake)
	}
	if !d.Remainder.Valid() {
		return fmt.Errorf("unknown remainder policy %d", d.Remainder)
	}
	return nil
}

// Pools returns the richmen and poor pools.
func (d RichPoor) Pools() (rich, poor coin.Coin) {
	switch {
	case d.Poor == 0:
		return d.TotalStake, 0
	case d.Richmen == 0:
		return 0, d.TotalStake
	}
	hi, lo := bits.Mul64(uint64(d.TotalStake), uint64(MaxShareBps-d.RichmenShareBps))
	q, _ := bits.Div64(hi, lo, MaxShareBps)
	poor = coin.Coin(q)
	return d.TotalStake - poor, poor
}

// Split computes per-holder amounts for both classes.
func (d RichPoor) Split() (richmen, poor []coin.Coin, err error) {
	if err := d.Validate(); err != nil {
		return nil, nil, err
	}
	richPool, poorPool := d.Pools()
	return splitClass(richPool, d.Richmen, d.Remainder), splitClass(poorPool, d.Poor, d.Remainder), nil
}

func splitClass(pool coin.Coin, n uint32, policy RemainderPolicy) []coin.Coin {
	if n == 0 {
		return nil
	}
	per := pool / coin.Coin(n)
	out := make([]coin.Coin, n)
	for i := range out {
		out[i] = per
	}
	rem := pool % coin.Coin(n)
	if policy == RemainderToLast {
		out[n-1] += rem
	} else {
		out[0] += rem
	}
	return out
}

// Stakes assigns the split to addrs, richmen first.
func (d RichPoor) Stakes(addrs []address.Address) (ExplicitStakes, error) {
	if len(addrs) != d.Holders() {
		return nil, fmt.Errorf("rich/poor distribution expects %d addresses, fragment lists %d", d.Holders(), len(addrs))
	}
	rich, poor, err := d.Split()
	if err != nil {
		return nil, err
	}
	out := make(ExplicitStakes, len(addrs))
	for i, a := range addrs {
		if _, dup := out[a]; dup {
			return nil, &DuplicateAddressError{Address: a}
		}
		if i < len(rich) {
			out[a] = rich[i]
		} else {
			out[a] = poor[i-len(rich)]
		}
	}
	return out, nil
}

func equalDistribution(a, b StakeDistribution) bool {
	if a == nil || b == nil {
		return holders(a) == 0 && holders(b) == 0 && (a == nil || a.Kind() == ExplicitKind) && (b == nil || b.Kind() == ExplicitKind)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case ExplicitStakes:
		return x.Equal(b.(ExplicitStakes))
	case RichPoor:
		return x == b.(RichPoor)
	}
	return false
}

func holders(d StakeDistribution) int {
	if d == nil {
		return 0
	}
	return d.Holders()
}
