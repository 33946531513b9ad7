// Package deposits declares and implements persistent storage for ledger
// deposits and the deposit id counter.
package deposits

import (
	"context"

	"github.com/dmitrijs2005/safesend/internal/ledger"
)

type Repository interface {
	// AllocateID reserves and returns the next deposit id. Ids are never reused.
	AllocateID(ctx context.Context) (uint64, error)
	// NextID returns the id the next deposit will receive without reserving it.
	NextID(ctx context.Context) (uint64, error)
	Insert(ctx context.Context, d *ledger.Deposit) error
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id uint64) (*ledger.Deposit, error)
	// GetForUpdate is Get with a row lock held until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id uint64) (*ledger.Deposit, error)
	// MarkClaimed and MarkCancelled flip the resolution flag of an unresolved
	// deposit. A resolved deposit yields ledger.ErrAlreadyClaimed or
	// ledger.ErrAlreadyCancelled.
	MarkClaimed(ctx context.Context, id uint64) error
	MarkCancelled(ctx context.Context, id uint64) error
}
