package coin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Coin
		want    Coin
		wantErr bool
	}{
		{"zero", 0, 0, 0, false},
		{"small", 10, 20, 30, false},
		{"up to max", MaxCoin - 1, 1, MaxCoin, false},
		{"above max", MaxCoin, 1, 0, true},
		{"operand above max", MaxCoin + 5, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Add(tt.a, tt.b)
			if tt.wantErr {
				require.True(t, errors.Is(err, ErrOverflow))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSum(t *testing.T) {
	total, err := Sum(10, 20, 5)
	require.NoError(t, err)
	require.Equal(t, Coin(35), total)

	_, err = Sum(MaxCoin/2, MaxCoin/2, MaxCoin/2)
	require.True(t, errors.Is(err, ErrOverflow))

	total, err = Sum()
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestSub(t *testing.T) {
	got, err := Sub(101, 40)
	require.NoError(t, err)
	require.Equal(t, Coin(61), got)

	_, err = Sub(1, 2)
	require.True(t, errors.Is(err, ErrUnderflow))
}

func TestFromUint64(t *testing.T) {
	c, err := FromUint64(uint64(MaxCoin))
	require.NoError(t, err)
	require.Equal(t, MaxCoin, c)

	_, err = FromUint64(uint64(MaxCoin) + 1)
	require.True(t, errors.Is(err, ErrOverflow))
	require.Equal(t, "45000000000000000", MaxCoin.String())
}
