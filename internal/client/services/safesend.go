package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/dmitrijs2005/safesend/internal/client/client"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// HashFunc is called with the transaction hash as soon as the server
// accepts a submission, before its receipt is known.
type HashFunc func(common.Hash)

// CreateRequest describes a new deposit. Value is the full amount sent,
// notification and fee included.
type CreateRequest struct {
	Recipient     common.Address
	Password      string
	ExpiryMinutes int64
	Value         *big.Int
}

// Quote is how a deposit value will be split.
type Quote struct {
	Notification *big.Int
	Fee          *big.Int
	Principal    *big.Int
}

// SafeSendService runs the deposit operations for the signed-in account.
//
// Mutating calls submit, report the hash, then wait for the receipt; a
// reverted receipt is returned as its ledger error. Nothing is applied
// locally: callers re-read state after every call.
type SafeSendService interface {
	UseAccount(address common.Address)
	Account() common.Address

	Constants(ctx context.Context) (*client.Constants, error)
	RefreshConstants(ctx context.Context) (*client.Constants, error)
	Quote(ctx context.Context, value *big.Int) (*Quote, error)
	Now(ctx context.Context) (time.Time, error)
	Balance(ctx context.Context) (*big.Int, error)

	Fund(ctx context.Context, onHash HashFunc) (*ledger.Receipt, error)
	CreateDeposit(ctx context.Context, req CreateRequest, onHash HashFunc) (*ledger.DepositCreatedEvent, error)
	Claim(ctx context.Context, id uint64, password string, onHash HashFunc) (*ledger.DepositClaimedEvent, error)
	Cancel(ctx context.Context, id uint64, onHash HashFunc) (*ledger.DepositCancelledEvent, error)

	GetDeposit(ctx context.Context, id uint64) (*ledger.Deposit, error)
	IsExpired(ctx context.Context, id uint64) (bool, error)

	History(ctx context.Context) ([]HistoryRow, error)
	IndexedHistory(ctx context.Context) ([]HistoryRow, error)
	Claimable(ctx context.Context) ([]HistoryRow, error)
	Reclaimable(ctx context.Context) ([]HistoryRow, error)
}

type Options struct {
	// ReceiptTimeout bounds the wait for each receipt. Zero waits as long
	// as the caller's context allows.
	ReceiptTimeout time.Duration
	// IndexedHistory makes Claimable and Reclaimable use the server index
	// instead of scanning every deposit.
	IndexedHistory bool
}

type safeSendService struct {
	client client.Client
	opts   Options

	mu        sync.Mutex
	account   common.Address
	constants *client.Constants
}

func NewSafeSendService(c client.Client, opts Options) SafeSendService {
	return &safeSendService{client: c, opts: opts}
}

func (s *safeSendService) UseAccount(address common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = address
}

func (s *safeSendService) Account() common.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

func (s *safeSendService) from() (common.Address, error) {
	a := s.Account()
	if ethx.IsZero(a) {
		return common.Address{}, client.ErrNoWallet
	}
	return a, nil
}

// Constants returns the cached ledger constants, fetching them once.
func (s *safeSendService) Constants(ctx context.Context) (*client.Constants, error) {
	s.mu.Lock()
	c := s.constants
	s.mu.Unlock()
	if c != nil {
		return c, nil
	}
	return s.RefreshConstants(ctx)
}

func (s *safeSendService) RefreshConstants(ctx context.Context) (*client.Constants, error) {
	c, err := s.client.GetConstants(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.constants = c
	s.mu.Unlock()
	return c, nil
}

func (s *safeSendService) Quote(ctx context.Context, value *big.Int) (*Quote, error) {
	c, err := s.Constants(ctx)
	if err != nil {
		return nil, err
	}
	n, f, p := c.Split(value)
	return &Quote{Notification: n, Fee: f, Principal: p}, nil
}

func (s *safeSendService) Now(ctx context.Context) (time.Time, error) {
	return s.client.GetCurrentTime(ctx)
}

func (s *safeSendService) Balance(ctx context.Context) (*big.Int, error) {
	from, err := s.from()
	if err != nil {
		return nil, err
	}
	return s.client.GetBalance(ctx, from)
}

// validate runs the checks that need no ledger state against the cached
// constants, so bad input never reaches the server.
func (s *safeSendService) validate(ctx context.Context, tx *ledger.Transaction) error {
	c, err := s.Constants(ctx)
	if err != nil {
		return err
	}
	return tx.Validate(c.Params)
}

func (s *safeSendService) execute(ctx context.Context, submit func(context.Context) (common.Hash, error), onHash HashFunc) (*ledger.Receipt, error) {
	hash, err := submit(ctx)
	if err != nil {
		return nil, err
	}
	if onHash != nil {
		onHash(hash)
	}

	wctx := ctx
	if s.opts.ReceiptTimeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, s.opts.ReceiptTimeout)
		defer cancel()
	}

	rc, err := s.client.WaitReceipt(wctx, hash)
	if err != nil {
		// accepted by the server, so the outcome is unknown rather than failed
		return nil, fmt.Errorf("%w: %s: %w", client.ErrReceiptPending, hash.Hex(), err)
	}
	return rc, rc.Err()
}

func (s *safeSendService) Fund(ctx context.Context, onHash HashFunc) (*ledger.Receipt, error) {
	from, err := s.from()
	if err != nil {
		return nil, err
	}
	c, err := s.Constants(ctx)
	if err != nil {
		return nil, err
	}
	if c.FaucetAmount.Sign() == 0 {
		return nil, ledger.ErrFaucetDisabled
	}
	if err := s.validate(ctx, ledger.NewFund(from)); err != nil {
		return nil, err
	}
	return s.execute(ctx, s.client.SubmitFund, onHash)
}

func (s *safeSendService) CreateDeposit(ctx context.Context, req CreateRequest, onHash HashFunc) (*ledger.DepositCreatedEvent, error) {
	from, err := s.from()
	if err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, ledger.ErrEmptyPassword
	}
	commitment := ethx.PasswordCommitment(req.Password)

	tx := ledger.NewCreate(from, req.Recipient, commitment, req.ExpiryMinutes, req.Value)
	if err := s.validate(ctx, tx); err != nil {
		return nil, err
	}

	rc, err := s.execute(ctx, func(ctx context.Context) (common.Hash, error) {
		return s.client.SubmitCreateDeposit(ctx, req.Recipient, commitment, req.ExpiryMinutes, req.Value)
	}, onHash)
	if err != nil {
		return nil, err
	}

	ev, err := ledger.DecodeDepositCreated(rc.Logs)
	if err != nil {
		return nil, fmt.Errorf("read deposit id from %s: %w", rc.TxHash.Hex(), err)
	}
	return ev, nil
}

func (s *safeSendService) Claim(ctx context.Context, id uint64, password string, onHash HashFunc) (*ledger.DepositClaimedEvent, error) {
	from, err := s.from()
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, ledger.NewClaim(from, id, password)); err != nil {
		return nil, err
	}

	rc, err := s.execute(ctx, func(ctx context.Context) (common.Hash, error) {
		return s.client.SubmitClaim(ctx, id, password)
	}, onHash)
	if err != nil {
		return nil, err
	}
	return ledger.DecodeDepositClaimed(rc.Logs)
}

func (s *safeSendService) Cancel(ctx context.Context, id uint64, onHash HashFunc) (*ledger.DepositCancelledEvent, error) {
	from, err := s.from()
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, ledger.NewCancel(from, id)); err != nil {
		return nil, err
	}

	rc, err := s.execute(ctx, func(ctx context.Context) (common.Hash, error) {
		return s.client.SubmitCancel(ctx, id)
	}, onHash)
	if err != nil {
		return nil, err
	}
	return ledger.DecodeDepositCancelled(rc.Logs)
}

// GetDeposit reports a never-created id as ErrDepositNotFound.
func (s *safeSendService) GetDeposit(ctx context.Context, id uint64) (*ledger.Deposit, error) {
	d, err := s.client.GetDeposit(ctx, id)
	if err != nil {
		return nil, err
	}
	if ethx.IsZero(d.Depositor) {
		return nil, ledger.ErrDepositNotFound
	}
	return d, nil
}

func (s *safeSendService) IsExpired(ctx context.Context, id uint64) (bool, error) {
	return s.client.IsExpired(ctx, id)
}
