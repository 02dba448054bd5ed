package keygen

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicSource(t *testing.T) {
	a := DeterministicSource{Seed: 42}
	b := DeterministicSource{Seed: 42}

	k1, err := a.SigningKey(DomainStake, 1)
	require.NoError(t, err)
	k1again, err := b.SigningKey(DomainStake, 1)
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(k1), crypto.FromECDSA(k1again))

	k2, err := a.SigningKey(DomainStake, 2)
	require.NoError(t, err)
	assert.NotEqual(t, crypto.FromECDSA(k1), crypto.FromECDSA(k2))

	vss1, err := a.SigningKey(DomainVss, 1)
	require.NoError(t, err)
	assert.NotEqual(t, crypto.FromECDSA(k1), crypto.FromECDSA(vss1))

	other, err := DeterministicSource{Seed: 43}.SigningKey(DomainStake, 1)
	require.NoError(t, err)
	assert.NotEqual(t, crypto.FromECDSA(k1), crypto.FromECDSA(other))

	r1, err := a.RedeemKey(DomainRedeem, 1)
	require.NoError(t, err)
	r1again, err := b.RedeemKey(DomainRedeem, 1)
	require.NoError(t, err)
	assert.Equal(t, r1, r1again)
}

func TestNewSource(t *testing.T) {
	assert.Equal(t, RandomSource{}, NewSource(nil))
	seed := int64(7)
	assert.Equal(t, DeterministicSource{Seed: 7}, NewSource(&seed))
}

func TestRandomSource(t *testing.T) {
	k1, err := RandomSource{}.SigningKey(DomainStake, 1)
	require.NoError(t, err)
	k2, err := RandomSource{}.SigningKey(DomainStake, 1)
	require.NoError(t, err)
	assert.NotEqual(t, crypto.FromECDSA(k1), crypto.FromECDSA(k2))

	r, err := RandomSource{}.RedeemKey(DomainRedeem, 1)
	require.NoError(t, err)
	assert.Len(t, r, 64)
}
