// Package ethx collects the Ethereum-flavoured helpers shared by the ledger
// server and the wallet client: address parsing, keccak hashing and ether
// unit conversion.
package ethx

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrZeroAddress    = errors.New("zero address")
)

// ParseAddress accepts a 0x-prefixed (or bare) 20-byte hex address and
// rejects the zero address. Checksum casing is not enforced.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, ErrInvalidAddress
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, ErrZeroAddress
	}
	return addr, nil
}

// SameAddress compares two hex addresses case-insensitively.
func SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func IsZero(addr common.Address) bool {
	return addr == (common.Address{})
}
