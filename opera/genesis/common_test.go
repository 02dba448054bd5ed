package genesis

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/inter/vss"
)

func fakeAddr(kind address.Kind, n uint32) address.Address {
	a := address.Address{Kind: kind}
	binary.BigEndian.PutUint32(a.Hash[16:], n)
	return a
}

func fakeAddrs(from, to uint32) []address.Address {
	var addrs []address.Address
	for i := from; i <= to; i++ {
		addrs = append(addrs, fakeAddr(address.PubKey, i))
	}
	return addrs
}

func explicitFragment(stakes map[uint32]coin.Coin, order ...uint32) Fragment {
	f := Fragment{Distribution: ExplicitStakes{}}
	for _, n := range order {
		a := fakeAddr(address.PubKey, n)
		f.Addresses = append(f.Addresses, a)
		f.Distribution.(ExplicitStakes)[a] = stakes[n]
	}
	return f
}

func redeemAddr(t *testing.T, seed byte) address.Address {
	s := make([]byte, ed25519.SeedSize)
	s[0] = seed
	return address.FromRedeemKey(ed25519.NewKeyFromSeed(s).Public().(ed25519.PublicKey))
}

// certifiedFragment returns a fragment of n ordinary addresses, each with a
// certificate signed by its own key.
func certifiedFragment(t *testing.T, n int, stake coin.Coin) Fragment {
	f := Fragment{
		Distribution:    ExplicitStakes{},
		VssCertificates: map[address.Address]vss.Certificate{},
	}
	for i := 0; i < n; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		vssKey, err := crypto.GenerateKey()
		require.NoError(t, err)
		cert, err := vss.New(key, &vssKey.PublicKey, 10)
		require.NoError(t, err)

		a := address.FromECDSA(key.PublicKey)
		f.Addresses = append(f.Addresses, a)
		f.Distribution.(ExplicitStakes)[a] = stake
		f.VssCertificates[a] = cert
	}
	return f
}
