package genesis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
)

func TestMergeIdentity(t *testing.T) {
	rp := Fragment{
		Addresses:    fakeAddrs(1, 5),
		Distribution: RichPoor{Richmen: 3, Poor: 2, TotalStake: 100, RichmenShareBps: 6000},
	}
	ex := explicitFragment(map[uint32]coin.Coin{7: 3, 8: 4}, 8, 7)

	for _, f := range []Fragment{rp, ex, Empty()} {
		left, err := Merge(Empty(), f)
		require.NoError(t, err)
		assert.True(t, left.Equal(f))

		right, err := Merge(f, Empty())
		require.NoError(t, err)
		assert.True(t, right.Equal(f))
	}

	// the compact form survives
	merged, err := Merge(Empty(), rp)
	require.NoError(t, err)
	assert.Equal(t, RichPoorKind, merged.Distribution.Kind())
}

func TestMergeConcatenates(t *testing.T) {
	a := Fragment{
		Addresses:    fakeAddrs(1, 2),
		Distribution: RichPoor{Richmen: 1, Poor: 1, TotalStake: 10, RichmenShareBps: 5000},
	}
	b := explicitFragment(map[uint32]coin.Coin{9: 7}, 9)

	m, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, []address.Address{fakeAddr(address.PubKey, 1), fakeAddr(address.PubKey, 2), fakeAddr(address.PubKey, 9)}, m.Addresses)
	require.Equal(t, ExplicitKind, m.Distribution.Kind())
	assert.Equal(t, ExplicitStakes{
		fakeAddr(address.PubKey, 1): 5,
		fakeAddr(address.PubKey, 2): 5,
		fakeAddr(address.PubKey, 9): 7,
	}, m.Distribution)

	total, err := m.TotalStake()
	require.NoError(t, err)
	assert.Equal(t, coin.Coin(17), total)
}

func TestMergeCommutative(t *testing.T) {
	a := Fragment{
		Addresses:    fakeAddrs(1, 3),
		Distribution: RichPoor{Richmen: 2, Poor: 1, TotalStake: 101, RichmenShareBps: 6000},
	}
	b := explicitFragment(map[uint32]coin.Coin{7: 4, 8: 6}, 8, 7)

	ab, err := Merge(a, b)
	require.NoError(t, err)
	ba, err := Merge(b, a)
	require.NoError(t, err)

	assert.ElementsMatch(t, ab.Addresses, ba.Addresses)
	assert.NotEqual(t, ab.Addresses, ba.Addresses)

	abStakes, err := ab.Flatten()
	require.NoError(t, err)
	baStakes, err := ba.Flatten()
	require.NoError(t, err)
	assert.True(t, abStakes.Equal(baStakes))

	abTotal, err := ab.TotalStake()
	require.NoError(t, err)
	baTotal, err := ba.TotalStake()
	require.NoError(t, err)
	assert.Equal(t, coin.Coin(111), abTotal)
	assert.Equal(t, abTotal, baTotal)
}

func TestMergeDuplicate(t *testing.T) {
	a := explicitFragment(map[uint32]coin.Coin{1: 1, 2: 2}, 1, 2)
	b := explicitFragment(map[uint32]coin.Coin{2: 5, 3: 3}, 3, 2)

	_, err := Merge(a, b)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateAddress))
	var dup *DuplicateAddressError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, fakeAddr(address.PubKey, 2), dup.Address)
}

func TestMergeAssociative(t *testing.T) {
	a := Fragment{
		Addresses:    fakeAddrs(1, 3),
		Distribution: RichPoor{Richmen: 1, Poor: 2, TotalStake: 31, RichmenShareBps: 7000},
	}
	b := explicitFragment(map[uint32]coin.Coin{10: 1, 11: 2}, 10, 11)
	c := explicitFragment(map[uint32]coin.Coin{20: 9}, 20)

	ab, err := Merge(a, b)
	require.NoError(t, err)
	abc1, err := Merge(ab, c)
	require.NoError(t, err)

	bc, err := Merge(b, c)
	require.NoError(t, err)
	abc2, err := Merge(a, bc)
	require.NoError(t, err)

	assert.True(t, abc1.Equal(abc2))

	// a duplicate is reported whichever way the fold goes
	dupC := explicitFragment(map[uint32]coin.Coin{2: 9}, 2)
	bc, err = Merge(b, dupC)
	require.NoError(t, err)
	_, err = Merge(a, bc)
	require.ErrorIs(t, err, ErrDuplicateAddress)
	_, err = Merge(ab, dupC)
	require.ErrorIs(t, err, ErrDuplicateAddress)
}

func TestMergeCertificates(t *testing.T) {
	a := certifiedFragment(t, 2, 10)
	b := certifiedFragment(t, 1, 20)
	b.Addresses = append(b.Addresses, redeemAddr(t, 1))
	b.Distribution.(ExplicitStakes)[redeemAddr(t, 1)] = 5

	m, err := Merge(a, b)
	require.NoError(t, err)
	require.Len(t, m.VssCertificates, 3)
	for addr, cert := range a.VssCertificates {
		assert.True(t, cert.Equal(m.VssCertificates[addr]))
	}
	require.NoError(t, m.Validate())
}

func TestFragmentValidate(t *testing.T) {
	require.NoError(t, Empty().Validate())
	require.NoError(t, certifiedFragment(t, 2, 1).Validate())

	t.Run("duplicate inside", func(t *testing.T) {
		f := Fragment{
			Addresses:    []address.Address{fakeAddr(address.PubKey, 1), fakeAddr(address.PubKey, 1)},
			Distribution: RichPoor{Richmen: 2, TotalStake: 2},
		}
		require.ErrorIs(t, f.Validate(), ErrDuplicateAddress)
	})
	t.Run("distribution mismatch", func(t *testing.T) {
		f := explicitFragment(map[uint32]coin.Coin{1: 1}, 1)
		f.Addresses = append(f.Addresses, fakeAddr(address.PubKey, 2))
		require.Error(t, f.Validate())
	})
	t.Run("no distribution", func(t *testing.T) {
		f := Fragment{Addresses: fakeAddrs(1, 1)}
		require.Error(t, f.Validate())
	})
	t.Run("certificate for unknown address", func(t *testing.T) {
		f := certifiedFragment(t, 1, 1)
		for _, c := range f.VssCertificates {
			f.VssCertificates[fakeAddr(address.PubKey, 77)] = c
		}
		require.Error(t, f.Validate())
	})
	t.Run("tampered certificate", func(t *testing.T) {
		f := certifiedFragment(t, 1, 1)
		for a, c := range f.VssCertificates {
			c.ExpiryEpoch++
			f.VssCertificates[a] = c
		}
		require.Error(t, f.Validate())
	})
}
