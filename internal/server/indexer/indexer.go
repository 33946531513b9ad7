// Package indexer keeps an in-memory map from address to the deposits it
// sent or received. It is rebuilt from stored receipts at startup and then
// follows the transaction pool as an observer.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/logging"
	"github.com/ethereum/go-ethereum/common"
)

type Role string

const (
	RoleSent     Role = "sent"
	RoleReceived Role = "received"
)

const DefaultPageSize = 500

type Entry struct {
	DepositID uint64
	Role      Role
}

type ReceiptSource interface {
	ReceiptsAfter(ctx context.Context, seq uint64, limit int) ([]*ledger.Receipt, error)
}

type Index struct {
	logger   logging.Logger
	pageSize int

	mu      sync.RWMutex
	byAddr  map[common.Address][]Entry
	lastSeq uint64
}

func New(logger logging.Logger) *Index {
	return &Index{
		logger:   logger.With("module", "indexer"),
		pageSize: DefaultPageSize,
		byAddr:   make(map[common.Address][]Entry),
	}
}

// Replay indexes every receipt src holds beyond what was already seen.
func (i *Index) Replay(ctx context.Context, src ReceiptSource) error {
	total := 0
	for {
		i.mu.RLock()
		after := i.lastSeq
		i.mu.RUnlock()

		page, err := src.ReceiptsAfter(ctx, after, i.pageSize)
		if err != nil {
			return fmt.Errorf("replay after %d: %w", after, err)
		}
		for _, r := range page {
			i.add(r)
		}
		total += len(page)
		if len(page) < i.pageSize {
			break
		}
	}
	i.logger.Info(ctx, "index rebuilt", "receipts", total, "addresses", i.addresses())
	return nil
}

// Finalized implements txpool.Observer.
func (i *Index) Finalized(ctx context.Context, r *ledger.Receipt) {
	i.add(r)
}

// ListDeposits returns addr's deposits in creation order.
func (i *Index) ListDeposits(addr common.Address) []Entry {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]Entry(nil), i.byAddr[addr]...)
}

func (i *Index) add(r *ledger.Receipt) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if r.Sequence != 0 && r.Sequence <= i.lastSeq {
		return
	}
	if r.Sequence > i.lastSeq {
		i.lastSeq = r.Sequence
	}
	if !r.Success || r.Kind != ledger.KindCreate {
		return
	}

	ev, err := ledger.DecodeDepositCreated(r.Logs)
	if err != nil {
		if !errors.Is(err, ledger.ErrEventNotFound) {
			i.logger.Warn(context.Background(), "undecodable creation log", "tx", r.TxHash.Hex(), "error", err)
		}
		return
	}

	i.byAddr[ev.Depositor] = append(i.byAddr[ev.Depositor], Entry{DepositID: ev.DepositID, Role: RoleSent})
	i.byAddr[ev.Recipient] = append(i.byAddr[ev.Recipient], Entry{DepositID: ev.DepositID, Role: RoleReceived})
}

func (i *Index) addresses() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byAddr)
}
