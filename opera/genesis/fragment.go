package genesis

import (
	"fmt"

	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/inter/vss"
)

// Fragment is the contribution of one stake source. Addresses keep the order
// in which the source generated them.
type Fragment struct {
	Addresses       []address.Address
	Distribution    StakeDistribution
	VssCertificates map[address.Address]vss.Certificate
}

// Empty is the identity element of Merge.
func Empty() Fragment {
	return Fragment{Distribution: ExplicitStakes{}}
}

// IsEmpty reports whether f contributes nothing.
func (f Fragment) IsEmpty() bool {
	return len(f.Addresses) == 0 && holders(f.Distribution) == 0 && len(f.VssCertificates) == 0
}

// Flatten resolves the distribution to explicit stakes.
func (f Fragment) Flatten() (ExplicitStakes, error) {
	if f.Distribution == nil {
		if len(f.Addresses) != 0 {
			return nil, fmt.Errorf("fragment lists %d addresses without a distribution", len(f.Addresses))
		}
		return ExplicitStakes{}, nil
	}
	return f.Distribution.Stakes(f.Addresses)
}

// TotalStake sums the flattened stakes.
func (f Fragment) TotalStake() (coin.Coin, error) {
	stakes, err := f.Flatten()
	if err != nil {
		return 0, err
	}
	return stakes.Total()
}

// Validate checks that addresses are unique, that the distribution covers
// exactly those addresses, and that every certificate belongs to a listed
// address and carries a valid signature.
func (f Fragment) Validate() error {
	seen := make(map[address.Address]struct{}, len(f.Addresses))
	for _, a := range f.Addresses {
		if !a.Kind.Valid() {
			return fmt.Errorf("address %s has unknown kind", a)
		}
		if _, ok := seen[a]; ok {
			return &DuplicateAddressError{Address: a}
		}
		seen[a] = struct{}{}
	}
	if rp, ok := f.Distribution.(RichPoor); ok {
		if err := rp.Validate(); err != nil {
			return err
		}
	}
	if _, err := f.TotalStake(); err != nil {
		return err
	}
	for a, cert := range f.VssCertificates {
		if _, ok := seen[a]; !ok {
			return fmt.Errorf("vss certificate for unknown address %s", a)
		}
		if err := cert.Verify(); err != nil {
			return fmt.Errorf("vss certificate of %s: %w", a, err)
		}
	}
	return nil
}

// Equal compares addresses in order, the distribution and the certificates.
func (f Fragment) Equal(o Fragment) bool {
	if len(f.Addresses) != len(o.Addresses) || len(f.VssCertificates) != len(o.VssCertificates) {
		return false
	}
	for i, a := range f.Addresses {
		if o.Addresses[i] != a {
			return false
		}
	}
	for a, c := range f.VssCertificates {
		oc, ok := o.VssCertificates[a]
		if !ok || !c.Equal(oc) {
			return false
		}
	}
	return equalDistribution(f.Distribution, o.Distribution)
}

// Merge combines two fragments. If either side is empty the other one is
// returned as is, so a RichPoor distribution keeps its compact form. Otherwise
// both sides are flattened to explicit stakes and the certificate maps are
// joined. An address present on both sides is an error; stakes are never
// summed.
func Merge(a, b Fragment) (Fragment, error) {
	if b.IsEmpty() {
		return a, nil
	}
	if a.IsEmpty() {
		return b, nil
	}
	left, err := a.Flatten()
	if err != nil {
		return Fragment{}, err
	}
	right, err := b.Flatten()
	if err != nil {
		return Fragment{}, err
	}

	stakes := make(ExplicitStakes, len(left)+len(right))
	for addr, c := range left {
		stakes[addr] = c
	}
	for _, addr := range b.Addresses {
		if _, dup := stakes[addr]; dup {
			return Fragment{}, &DuplicateAddressError{Address: addr}
		}
		stakes[addr] = right[addr]
	}

	var certs map[address.Address]vss.Certificate
	if n := len(a.VssCertificates) + len(b.VssCertificates); n != 0 {
		certs = make(map[address.Address]vss.Certificate, n)
		for addr, c := range a.VssCertificates {
			certs[addr] = c
		}
		for addr, c := range b.VssCertificates {
			if _, dup := certs[addr]; dup {
				return Fragment{}, &DuplicateAddressError{Address: addr}
			}
			certs[addr] = c
		}
	}

	addrs := make([]address.Address, 0, len(a.Addresses)+len(b.Addresses))
	addrs = append(addrs, a.Addresses...)
	addrs = append(addrs, b.Addresses...)
	return Fragment{
		Addresses:       addrs,
		Distribution:    stakes,
		VssCertificates: certs,
	}, nil
}
