// Package receipts persists finalized transaction receipts. The sequence
// number assigned on save gives a total order used for replay.
package receipts

import (
	"context"

	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

type Repository interface {
	// Save stores r and returns its sequence number.
	Save(ctx context.Context, r *ledger.Receipt) (uint64, error)
	// Get returns common.ErrorNotFound for an unknown hash.
	Get(ctx context.Context, hash common.Hash) (*ledger.Receipt, error)
	// ListAfter returns up to limit receipts with Sequence > seq, ascending.
	ListAfter(ctx context.Context, seq uint64, limit int) ([]*ledger.Receipt, error)
}
