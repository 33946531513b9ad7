// Package ledgertest provides an in-memory ledger for tests of the layers
// above the engine: a State, and a Ledger that applies transactions and
// keeps their receipts the way the database-backed service does.
package ledgertest

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// MemState is a ledger.State kept in maps. It is not transactional; callers
// that need atomicity hold Ledger's lock around a whole Apply.
type MemState struct {
	nextID   uint64
	deposits map[uint64]ledger.Deposit
	balances map[ethcommon.Address]*big.Int
	fees     *big.Int
}

func NewMemState() *MemState {
	return &MemState{
		deposits: map[uint64]ledger.Deposit{},
		balances: map[ethcommon.Address]*big.Int{},
		fees:     new(big.Int),
	}
}

func (m *MemState) AllocateDepositID(context.Context) (uint64, error) {
	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *MemState) InsertDeposit(_ context.Context, d *ledger.Deposit) error {
	m.deposits[d.ID] = *d
	return nil
}

func (m *MemState) LoadDeposit(_ context.Context, id uint64) (*ledger.Deposit, error) {
	d, ok := m.deposits[id]
	if !ok {
		return nil, ledger.ErrDepositNotFound
	}
	return &d, nil
}

func (m *MemState) resolve(id uint64, set func(*ledger.Deposit)) error {
	d, ok := m.deposits[id]
	switch {
	case !ok:
		return ledger.ErrDepositNotFound
	case d.Claimed:
		return ledger.ErrAlreadyClaimed
	case d.Cancelled:
		return ledger.ErrAlreadyCancelled
	}
	set(&d)
	m.deposits[id] = d
	return nil
}

func (m *MemState) MarkClaimed(_ context.Context, id uint64) error {
	return m.resolve(id, func(d *ledger.Deposit) { d.Claimed = true })
}

func (m *MemState) MarkCancelled(_ context.Context, id uint64) error {
	return m.resolve(id, func(d *ledger.Deposit) { d.Cancelled = true })
}

func (m *MemState) Balance(_ context.Context, addr ethcommon.Address) (*big.Int, error) {
	if b, ok := m.balances[addr]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (m *MemState) Credit(_ context.Context, addr ethcommon.Address, amount *big.Int) error {
	b, ok := m.balances[addr]
	if !ok {
		b = new(big.Int)
	}
	m.balances[addr] = new(big.Int).Add(b, amount)
	return nil
}

func (m *MemState) Debit(_ context.Context, addr ethcommon.Address, amount *big.Int) error {
	b, ok := m.balances[addr]
	if !ok || b.Cmp(amount) < 0 {
		return ledger.ErrInsufficientFunds
	}
	m.balances[addr] = new(big.Int).Sub(b, amount)
	return nil
}

func (m *MemState) AddFees(_ context.Context, amount *big.Int) error {
	m.fees.Add(m.fees, amount)
	return nil
}

// Ledger applies transactions to a MemState under a lock and records
// receipts with increasing sequence numbers. Its method set matches what
// the transaction pool and the gRPC handlers need from the ledger service.
type Ledger struct {
	mu       sync.Mutex
	engine   *ledger.Engine
	state    *MemState
	receipts []*ledger.Receipt
	now      time.Time

	// ExecuteErr, when set, is returned by Execute instead of applying.
	ExecuteErr error
	// Gate, when set, is received from before each Execute.
	Gate chan struct{}
}

// New returns a Ledger with default parameters, clocked at now.
func New(now time.Time) *Ledger {
	e, err := ledger.NewEngine(ledger.DefaultParams(), ethcommon.HexToAddress("0x5afe"))
	if err != nil {
		panic(err)
	}
	return NewWithEngine(e, now)
}

func NewWithEngine(e *ledger.Engine, now time.Time) *Ledger {
	return &Ledger{engine: e, state: NewMemState(), now: now}
}

func (l *Ledger) SetTime(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Fund credits addr directly, bypassing the faucet limits.
func (l *Ledger) Fund(addr ethcommon.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.state.Credit(context.Background(), addr, amount)
}

func (l *Ledger) Execute(ctx context.Context, tx *ledger.Transaction) (*ledger.Receipt, error) {
	if l.Gate != nil {
		select {
		case <-l.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ExecuteErr != nil {
		return nil, l.ExecuteErr
	}
	rc, err := l.engine.Apply(ctx, l.state, tx, l.now)
	if err != nil {
		return nil, err
	}
	rc.Sequence = uint64(len(l.receipts) + 1)
	l.receipts = append(l.receipts, rc)
	return rc, nil
}

func (l *Ledger) Params() ledger.Params { return l.engine.Params() }

func (l *Ledger) LedgerAddress() ethcommon.Address { return l.engine.Address() }

func (l *Ledger) CurrentTime() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

func (l *Ledger) GetDeposit(ctx context.Context, id uint64) (*ledger.Deposit, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.LoadDeposit(ctx, id)
}

func (l *Ledger) NextDepositID(context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.nextID, nil
}

func (l *Ledger) IsExpired(ctx context.Context, id uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, err := l.state.LoadDeposit(ctx, id)
	if err != nil {
		return false, err
	}
	return d.Expired(l.now), nil
}

func (l *Ledger) CollectedFees(context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.state.fees), nil
}

func (l *Ledger) Balance(ctx context.Context, addr ethcommon.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Balance(ctx, addr)
}

func (l *Ledger) GetReceipt(_ context.Context, hash ethcommon.Hash) (*ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.receipts {
		if r.TxHash == hash {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (l *Ledger) ReceiptsAfter(_ context.Context, seq uint64, limit int) ([]*ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*ledger.Receipt
	for _, r := range l.receipts {
		if r.Sequence > seq && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}
