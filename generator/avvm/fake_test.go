package avvm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-genesis/generator/keygen"
	"github.com/rony4d/go-opera-genesis/inter/address"
	"github.com/rony4d/go-opera-genesis/inter/coin"
	"github.com/rony4d/go-opera-genesis/opera/genesis"
)

func TestGenerateFake(t *testing.T) {
	dir := t.TempDir()
	res, err := newBuilder().GenerateFake(context.Background(), FakeOptions{
		Count:       4,
		SeedPattern: filepath.Join(dir, "avvm", "{}.seed"),
		Stake:       50,
	})
	require.NoError(t, err)

	assert.Equal(t, coin.Coin(200), res.Total)
	require.Len(t, res.Fragment.Addresses, 4)
	assert.Empty(t, res.Fragment.VssCertificates)
	stakes, err := res.Fragment.Flatten()
	require.NoError(t, err)
	for i, v := range res.Vouchers {
		assert.Equal(t, i+1, v.Index)
		assert.Equal(t, v.Address, res.Fragment.Addresses[i])
		assert.Equal(t, address.Redeem, v.Address.Kind)
		assert.Equal(t, coin.Coin(50), stakes[v.Address])

		priv, err := keygen.ReadFakeAvvmSeed(v.Path)
		require.NoError(t, err)
		assert.Equal(t, v.Key, priv.Public())
	}
	require.NoError(t, res.Fragment.Validate())
}

func TestGenerateFakeCollision(t *testing.T) {
	dir := t.TempDir()
	_, err := newBuilder().GenerateFake(context.Background(), FakeOptions{
		Count:       2,
		SeedPattern: filepath.Join(dir, "fixed.seed"),
		Stake:       1,
	})
	require.ErrorIs(t, err, keygen.ErrPatternCollision)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateFakeOverflow(t *testing.T) {
	_, err := newBuilder().GenerateFake(context.Background(), FakeOptions{
		Count:       2,
		SeedPattern: filepath.Join(t.TempDir(), "{}.seed"),
		Stake:       coin.MaxCoin,
	})
	require.ErrorIs(t, err, genesis.ErrStakeOverflow)
}

func TestFakeOptionsValidate(t *testing.T) {
	err := FakeOptions{Stake: coin.MaxCoin + 1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count is zero")
	assert.Contains(t, err.Error(), "pattern is empty")
	assert.Contains(t, err.Error(), "exceeds")
}
