package ethx

import (
	"errors"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const etherDecimals = 18

var ErrInvalidAmount = errors.New("invalid amount")

// ParseEther converts a decimal ETH string such as "0.011" into wei.
// Negative values and more than 18 fractional digits are rejected.
func ParseEther(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, ErrInvalidAmount
	}
	if d.IsNegative() {
		return nil, ErrInvalidAmount
	}

	wei := d.Shift(etherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, ErrInvalidAmount
	}
	return wei.BigInt(), nil
}

// FormatEther renders wei as a trimmed decimal ETH string ("0.0109").
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}

// Ether returns n/10^k ETH in wei; Ether(1, 3) is 0.001 ETH.
func Ether(n int64, k int32) *big.Int {
	return decimal.New(n, etherDecimals-k).BigInt()
}

// ParseWei parses a base-10 wei string as carried on the wire.
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || v.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	return v, nil
}

// WeiString is the wire form of an amount; nil encodes as "0".
func WeiString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
