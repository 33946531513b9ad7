// Package txpool holds submitted ledger transactions until the single
// sequencer goroutine finalizes them. Acceptance into the pool and
// finalization are the two points a caller can observe.
package txpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appcommon "github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/logging"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrPoolClosed = errors.New("transaction pool closed")
	ErrUnknownTx  = errors.New("unknown transaction")
	// ErrPending is returned by Lookup while a transaction awaits finalization.
	ErrPending = errors.New("transaction pending")
)

// droppedMemory bounds how many dropped hashes are remembered for Wait.
const droppedMemory = 1024

type Executor interface {
	// Execute applies tx atomically. A returned error means nothing was
	// written and no receipt exists.
	Execute(ctx context.Context, tx *ledger.Transaction) (*ledger.Receipt, error)
}

type ReceiptStore interface {
	GetReceipt(ctx context.Context, hash common.Hash) (*ledger.Receipt, error)
}

// Observer is told about every finalized receipt, on the sequencer
// goroutine. Implementations must not block.
type Observer interface {
	Finalized(ctx context.Context, r *ledger.Receipt)
}

// DropObserver is optionally implemented by observers that also want to
// hear about dropped transactions.
type DropObserver interface {
	Dropped(ctx context.Context, tx *ledger.Transaction, err error)
}

type entry struct {
	tx      *ledger.Transaction
	done    chan struct{}
	receipt *ledger.Receipt
	err     error
}

type Pool struct {
	params   ledger.Params
	exec     Executor
	receipts ReceiptStore
	logger   logging.Logger
	now      func() time.Time

	queue chan *entry

	mu        sync.Mutex
	closed    bool
	inflight  map[common.Hash]*entry
	dropped   map[common.Hash]error
	observers []Observer
}

// New returns a pool accepting up to size queued transactions.
func New(params ledger.Params, exec Executor, receipts ReceiptStore, size int, logger logging.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		params:   params,
		exec:     exec,
		receipts: receipts,
		logger:   logger.With("module", "txpool"),
		now:      time.Now,
		queue:    make(chan *entry, size),
		inflight: make(map[common.Hash]*entry),
		dropped:  make(map[common.Hash]error),
	}
}

// AddObserver registers o. Call before Run.
func (p *Pool) AddObserver(o Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, o)
}

// Len is the number of queued transactions not yet picked up.
func (p *Pool) Len() int {
	return len(p.queue)
}

// Submit validates tx, assigns its hash and queues it. It never waits for
// room: a full queue yields ledger.ErrPoolFull.
func (p *Pool) Submit(ctx context.Context, tx *ledger.Transaction) (common.Hash, error) {
	if err := tx.Validate(p.params); err != nil {
		return common.Hash{}, err
	}
	hash := tx.Seal(p.now())
	e := &entry{tx: tx, done: make(chan struct{})}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return common.Hash{}, ErrPoolClosed
	}
	select {
	case p.queue <- e:
	default:
		return common.Hash{}, ledger.ErrPoolFull
	}
	p.inflight[hash] = e

	p.logger.Debug(ctx, "transaction accepted", "tx", hash.Hex(), "kind", tx.Kind)
	return hash, nil
}

// Run is the sequencer: it finalizes queued transactions one at a time in
// submission order until ctx ends. Transactions still queued then are
// dropped with ErrPoolClosed.
func (p *Pool) Run(ctx context.Context) {
	p.logger.Info(ctx, "sequencer started")
	for {
		select {
		case <-ctx.Done():
			p.shutdown(ctx)
			p.logger.Info(ctx, "sequencer stopped")
			return
		case e := <-p.queue:
			if ctx.Err() != nil {
				p.drop(ctx, e, ErrPoolClosed)
				continue
			}
			p.process(ctx, e)
		}
	}
}

func (p *Pool) process(ctx context.Context, e *entry) {
	rc, err := p.exec.Execute(ctx, e.tx)
	if err != nil {
		p.logger.Error(ctx, "transaction dropped", "tx", e.tx.Hash.Hex(), "kind", e.tx.Kind, "error", err)
		p.drop(ctx, e, fmt.Errorf("%w: %v", ledger.ErrTxDropped, err))
		return
	}

	p.mu.Lock()
	e.receipt = rc
	delete(p.inflight, e.tx.Hash)
	observers := p.observers
	p.mu.Unlock()
	close(e.done)

	for _, o := range observers {
		o.Finalized(ctx, rc)
	}
}

func (p *Pool) drop(ctx context.Context, e *entry, err error) {
	p.mu.Lock()
	e.err = err
	delete(p.inflight, e.tx.Hash)
	if len(p.dropped) >= droppedMemory {
		p.dropped = make(map[common.Hash]error)
	}
	p.dropped[e.tx.Hash] = err
	observers := p.observers
	p.mu.Unlock()
	close(e.done)

	for _, o := range observers {
		if d, ok := o.(DropObserver); ok {
			d.Dropped(ctx, e.tx, err)
		}
	}
}

func (p *Pool) shutdown(ctx context.Context) {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	for {
		select {
		case e := <-p.queue:
			p.drop(ctx, e, ErrPoolClosed)
		default:
			return
		}
	}
}

// Wait blocks until the transaction is finalized or dropped, or ctx ends.
// Hashes finalized earlier are answered from the receipt store.
func (p *Pool) Wait(ctx context.Context, hash common.Hash) (*ledger.Receipt, error) {
	p.mu.Lock()
	e, inflight := p.inflight[hash]
	droppedErr, dropped := p.dropped[hash]
	p.mu.Unlock()

	switch {
	case inflight:
		select {
		case <-e.done:
			if e.err != nil {
				return nil, e.err
			}
			return e.receipt, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	case dropped:
		return nil, droppedErr
	default:
		return p.stored(ctx, hash)
	}
}

// Lookup is the non-blocking form of Wait: ErrPending while the transaction
// is still queued or executing.
func (p *Pool) Lookup(ctx context.Context, hash common.Hash) (*ledger.Receipt, error) {
	p.mu.Lock()
	_, inflight := p.inflight[hash]
	droppedErr, dropped := p.dropped[hash]
	p.mu.Unlock()

	switch {
	case inflight:
		return nil, ErrPending
	case dropped:
		return nil, droppedErr
	default:
		return p.stored(ctx, hash)
	}
}

func (p *Pool) stored(ctx context.Context, hash common.Hash) (*ledger.Receipt, error) {
	rc, err := p.receipts.GetReceipt(ctx, hash)
	if errors.Is(err, appcommon.ErrorNotFound) {
		return nil, ErrUnknownTx
	}
	return rc, err
}
