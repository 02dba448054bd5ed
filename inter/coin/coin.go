// Package coin implements the stake amount type. Arithmetic is checked: any
// result above MaxCoin is an error, never a wrapped value.
package coin

import (
	"errors"
	"fmt"
	"strconv"
)

// Coin is an amount of stake in the smallest unit.
type Coin uint64

// MaxCoin is the largest amount that may exist in a ledger.
const MaxCoin Coin = 45000000000000000

var (
	ErrOverflow  = errors.New("coin overflow")
	ErrUnderflow = errors.New("coin underflow")
)

// FromUint64 returns v as a Coin if it does not exceed MaxCoin.
func FromUint64(v uint64) (Coin, error) {
	if v > uint64(MaxCoin) {
		return 0, fmt.Errorf("%w: %d > %d", ErrOverflow, v, uint64(MaxCoin))
	}
	return Coin(v), nil
}

// Add returns a+b or ErrOverflow.
func Add(a, b Coin) (Coin, error) {
	if a > MaxCoin || b > MaxCoin || a > MaxCoin-b {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return a + b, nil
}

// Sub returns a-b or ErrUnderflow.
func Sub(a, b Coin) (Coin, error) {
	if b > a {
		return 0, fmt.Errorf("%w: %d - %d", ErrUnderflow, a, b)
	}
	return a - b, nil
}

// Sum adds all values, failing on the first overflow.
func Sum(values ...Coin) (Coin, error) {
	var total Coin
	for _, v := range values {
		var err error
		if total, err = Add(total, v); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Uint64 returns c as a plain integer.
func (c Coin) Uint64() uint64 {
	return uint64(c)
}

func (c Coin) String() string {
	return strconv.FormatUint(uint64(c), 10)
}
