package genesis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
)

func TestBuildNoSource(t *testing.T) {
	_, err := Build(FakeNetwork())
	require.Equal(t, ErrNoStakeSourceConfigured, err)

	_, err = Build(FakeNetwork(), Empty(), Fragment{})
	require.Equal(t, ErrNoStakeSourceConfigured, err)
}

func TestBuildSingleSource(t *testing.T) {
	f := Fragment{
		Addresses:    fakeAddrs(1, 5),
		Distribution: RichPoor{Richmen: 3, Poor: 2, TotalStake: 101, RichmenShareBps: 6000},
	}
	g, err := Build(FakeNetwork(), Empty(), f, Empty())
	require.NoError(t, err)
	assert.True(t, g.Fragment.Equal(f))
	assert.Equal(t, 5, g.Stakeholders())
	assert.Equal(t, fakeAddrs(1, 2), g.Preview(2))
	assert.Len(t, g.Preview(10), 5)

	total, err := g.TotalStake()
	require.NoError(t, err)
	assert.Equal(t, coin.Coin(101), total)
}

func TestBuildMergesSources(t *testing.T) {
	a := certifiedFragment(t, 2, 100)
	b := explicitFragment(map[uint32]coin.Coin{1: 7, 2: 8}, 1, 2)

	g, err := Build(FakeNetwork(), a, b)
	require.NoError(t, err)
	assert.Equal(t, append(append([]address.Address{}, a.Addresses...), b.Addresses...), g.Addresses)
	assert.Len(t, g.VssCertificates, 2)

	total, err := g.TotalStake()
	require.NoError(t, err)
	assert.Equal(t, coin.Coin(215), total)
}

func TestBuildDuplicate(t *testing.T) {
	a := explicitFragment(map[uint32]coin.Coin{1: 1}, 1)
	b := explicitFragment(map[uint32]coin.Coin{1: 1}, 1)
	_, err := Build(FakeNetwork(), a, b)
	require.True(t, errors.Is(err, ErrDuplicateAddress))
}

func TestBuildOverflow(t *testing.T) {
	a := explicitFragment(map[uint32]coin.Coin{1: coin.MaxCoin}, 1)
	b := explicitFragment(map[uint32]coin.Coin{2: 1}, 2)
	_, err := Build(FakeNetwork(), a, b)
	require.True(t, errors.Is(err, ErrStakeOverflow))

	// exactly MaxCoin is fine
	b = explicitFragment(map[uint32]coin.Coin{2: 0}, 2)
	_, err = Build(FakeNetwork(), a, b)
	require.NoError(t, err)
}

func TestBuildLongNetworkName(t *testing.T) {
	n := FakeNetwork()
	n.Name = string(make([]byte, MaxNetworkNameLen+1))
	_, err := Build(n, explicitFragment(map[uint32]coin.Coin{1: 1}, 1))
	require.Error(t, err)
}

func TestDataEqual(t *testing.T) {
	var nilData *Data
	assert.True(t, nilData.Equal(nil))

	a := &Data{Network: FakeNetwork(), Fragment: Empty()}
	b := &Data{Network: FakeNetwork()}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(nil))

	b.Network.NetworkID++
	assert.False(t, a.Equal(b))
}
