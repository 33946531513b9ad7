package client

import (
	"context"
	"math/big"
	"time"

	"github.com/dmitrijs2005/safesend/internal/api"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// Constants are the ledger parameters plus the running fee total.
type Constants struct {
	ledger.Params
	CollectedFees *big.Int
	LedgerAddress common.Address
}

// Client is the transport contract of the ledger service. Submit* return as
// soon as the transaction is queued; WaitReceipt blocks until it finalizes.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	GetChallenge(ctx context.Context, address common.Address) (message, challengeToken string, err error)
	Login(ctx context.Context, address common.Address, challengeToken string, signature []byte) error
	Logout()

	GetConstants(ctx context.Context) (*Constants, error)
	GetCurrentTime(ctx context.Context) (time.Time, error)
	GetDeposit(ctx context.Context, id uint64) (*ledger.Deposit, error)
	IsExpired(ctx context.Context, id uint64) (bool, error)
	NextDepositID(ctx context.Context) (uint64, error)
	GetBalance(ctx context.Context, address common.Address) (*big.Int, error)
	ListDeposits(ctx context.Context, address common.Address) ([]api.IndexEntry, error)

	SubmitCreateDeposit(ctx context.Context, recipient common.Address, commitment common.Hash, expiryMinutes int64, value *big.Int) (common.Hash, error)
	SubmitClaim(ctx context.Context, id uint64, password string) (common.Hash, error)
	SubmitCancel(ctx context.Context, id uint64) (common.Hash, error)
	SubmitFund(ctx context.Context) (common.Hash, error)
	WaitReceipt(ctx context.Context, hash common.Hash) (*ledger.Receipt, error)
}
