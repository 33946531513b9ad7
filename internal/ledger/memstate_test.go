package ledger

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// memState is an in-memory State used to drive the Engine in tests.
type memState struct {
	nextID   uint64
	deposits map[uint64]*Deposit
	balances map[common.Address]*big.Int
	fees     *big.Int
	writes   int

	failOn string
}

var errInjected = errors.New("injected failure")

func newMemState() *memState {
	return &memState{
		deposits: map[uint64]*Deposit{},
		balances: map[common.Address]*big.Int{},
		fees:     new(big.Int),
	}
}

func (m *memState) fail(op string) error {
	if m.failOn == op {
		return errInjected
	}
	return nil
}

func (m *memState) AllocateDepositID(context.Context) (uint64, error) {
	if err := m.fail("allocate"); err != nil {
		return 0, err
	}
	m.writes++
	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *memState) InsertDeposit(_ context.Context, d *Deposit) error {
	if err := m.fail("insert"); err != nil {
		return err
	}
	m.writes++
	cp := *d
	m.deposits[d.ID] = &cp
	return nil
}

func (m *memState) LoadDeposit(_ context.Context, id uint64) (*Deposit, error) {
	if err := m.fail("load"); err != nil {
		return nil, err
	}
	d, ok := m.deposits[id]
	if !ok {
		return nil, ErrDepositNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memState) MarkClaimed(_ context.Context, id uint64) error {
	d := m.deposits[id]
	if d.Claimed {
		return ErrAlreadyClaimed
	}
	if d.Cancelled {
		return ErrAlreadyCancelled
	}
	m.writes++
	d.Claimed = true
	return nil
}

func (m *memState) MarkCancelled(_ context.Context, id uint64) error {
	d := m.deposits[id]
	if d.Claimed {
		return ErrAlreadyClaimed
	}
	if d.Cancelled {
		return ErrAlreadyCancelled
	}
	m.writes++
	d.Cancelled = true
	return nil
}

func (m *memState) Balance(_ context.Context, addr common.Address) (*big.Int, error) {
	if b, ok := m.balances[addr]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (m *memState) Credit(_ context.Context, addr common.Address, amount *big.Int) error {
	if err := m.fail("credit"); err != nil {
		return err
	}
	m.writes++
	b, ok := m.balances[addr]
	if !ok {
		b = new(big.Int)
		m.balances[addr] = b
	}
	b.Add(b, amount)
	return nil
}

func (m *memState) Debit(_ context.Context, addr common.Address, amount *big.Int) error {
	b, ok := m.balances[addr]
	if !ok || b.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	m.writes++
	b.Sub(b, amount)
	return nil
}

func (m *memState) AddFees(_ context.Context, amount *big.Int) error {
	m.writes++
	m.fees.Add(m.fees, amount)
	return nil
}

func (m *memState) balance(addr common.Address) *big.Int {
	b, _ := m.Balance(context.Background(), addr)
	return b
}
