package services

import (
	"context"
	"math/big"

	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/deposits"
	"github.com/ethereum/go-ethereum/common"
)

// txState adapts repositories bound to one database transaction to
// ledger.State. Deposits are read with a row lock.
type txState struct {
	deposits deposits.Repository
	accounts accounts.Repository
}

var _ ledger.State = (*txState)(nil)

func (s *txState) AllocateDepositID(ctx context.Context) (uint64, error) {
	return s.deposits.AllocateID(ctx)
}

func (s *txState) InsertDeposit(ctx context.Context, d *ledger.Deposit) error {
	return s.deposits.Insert(ctx, d)
}

func (s *txState) LoadDeposit(ctx context.Context, id uint64) (*ledger.Deposit, error) {
	d, err := s.deposits.GetForUpdate(ctx, id)
	if err != nil {
		return nil, depositErr(err)
	}
	return d, nil
}

func (s *txState) MarkClaimed(ctx context.Context, id uint64) error {
	return s.deposits.MarkClaimed(ctx, id)
}

func (s *txState) MarkCancelled(ctx context.Context, id uint64) error {
	return s.deposits.MarkCancelled(ctx, id)
}

func (s *txState) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return s.accounts.Balance(ctx, addr)
}

func (s *txState) Credit(ctx context.Context, addr common.Address, amount *big.Int) error {
	return s.accounts.Credit(ctx, addr, amount)
}

func (s *txState) Debit(ctx context.Context, addr common.Address, amount *big.Int) error {
	return s.accounts.Debit(ctx, addr, amount)
}

func (s *txState) AddFees(ctx context.Context, amount *big.Int) error {
	return s.accounts.AddFees(ctx, amount)
}
