// Package accounts stores ledger balances and the platform fee pot.
// Amounts are NUMERIC(78,0) columns exchanged as base-10 strings.
package accounts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Repository interface {
	// Balance returns zero for an address that was never credited.
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)
	Credit(ctx context.Context, addr common.Address, amount *big.Int) error
	// Debit returns ledger.ErrInsufficientFunds when the balance is below amount.
	Debit(ctx context.Context, addr common.Address, amount *big.Int) error
	CollectedFees(ctx context.Context) (*big.Int, error)
	AddFees(ctx context.Context, amount *big.Int) error
}
