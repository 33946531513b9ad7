// Package services contains server-side business logic. This file implements
// LedgerService, which executes ledger transactions atomically against
// PostgreSQL and serves the read side of the deposit ledger.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/dbx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/logging"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/repomanager"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	engine      *ledger.Engine
	logger      logging.Logger
	now         func() time.Time
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager, engine *ledger.Engine, logger logging.Logger) *LedgerService {
	return &LedgerService{
		db:          db,
		repomanager: m,
		engine:      engine,
		logger:      logger.With("module", "ledger_service"),
		now:         time.Now,
	}
}

// Execute applies tx and stores its receipt in one database transaction.
// A reverted call still commits, since its receipt must be retrievable; an
// error means nothing was written.
func (s *LedgerService) Execute(ctx context.Context, tx *ledger.Transaction) (*ledger.Receipt, error) {
	now := s.now()

	rc, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, dbtx dbx.DBTX) (*ledger.Receipt, error) {
		rc, err := s.engine.Apply(ctx, s.state(dbtx), tx, now)
		if err != nil {
			return nil, err
		}
		if _, err := s.repomanager.Receipts(dbtx).Save(ctx, rc); err != nil {
			return nil, fmt.Errorf("error saving receipt: %w", err)
		}
		return rc, nil
	})
	if err != nil {
		s.logger.Error(ctx, "transaction failed", "tx", tx.Hash.Hex(), "kind", tx.Kind, "error", err)
		return nil, err
	}

	if rc.Success {
		s.logger.Info(ctx, "transaction finalized", "tx", rc.TxHash.Hex(), "kind", rc.Kind, "seq", rc.Sequence)
	} else {
		s.logger.Info(ctx, "transaction reverted", "tx", rc.TxHash.Hex(), "kind", rc.Kind, "reason", rc.Reason)
	}
	return rc, nil
}

func (s *LedgerService) Params() ledger.Params {
	return s.engine.Params()
}

func (s *LedgerService) LedgerAddress() ethcommon.Address {
	return s.engine.Address()
}

func (s *LedgerService) CurrentTime() time.Time {
	return s.now()
}

// GetDeposit returns ledger.ErrDepositNotFound for an id never assigned.
func (s *LedgerService) GetDeposit(ctx context.Context, id uint64) (*ledger.Deposit, error) {
	d, err := s.repomanager.Deposits(s.db).Get(ctx, id)
	if err != nil {
		return nil, depositErr(err)
	}
	return d, nil
}

func (s *LedgerService) NextDepositID(ctx context.Context) (uint64, error) {
	return s.repomanager.Deposits(s.db).NextID(ctx)
}

// IsExpired reports whether the deposit's expiry has passed. Unknown ids
// are an error rather than "expired".
func (s *LedgerService) IsExpired(ctx context.Context, id uint64) (bool, error) {
	d, err := s.GetDeposit(ctx, id)
	if err != nil {
		return false, err
	}
	return d.Expired(s.now()), nil
}

func (s *LedgerService) CollectedFees(ctx context.Context) (*big.Int, error) {
	return s.repomanager.Accounts(s.db).CollectedFees(ctx)
}

func (s *LedgerService) Balance(ctx context.Context, addr ethcommon.Address) (*big.Int, error) {
	return s.repomanager.Accounts(s.db).Balance(ctx, addr)
}

// GetReceipt returns common.ErrorNotFound until hash is finalized.
func (s *LedgerService) GetReceipt(ctx context.Context, hash ethcommon.Hash) (*ledger.Receipt, error) {
	return s.repomanager.Receipts(s.db).Get(ctx, hash)
}

func (s *LedgerService) ReceiptsAfter(ctx context.Context, seq uint64, limit int) ([]*ledger.Receipt, error) {
	return s.repomanager.Receipts(s.db).ListAfter(ctx, seq, limit)
}

func (s *LedgerService) state(db dbx.DBTX) *txState {
	return &txState{
		deposits: s.repomanager.Deposits(db),
		accounts: s.repomanager.Accounts(db),
	}
}

func depositErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return ledger.ErrDepositNotFound
	}
	return err
}
