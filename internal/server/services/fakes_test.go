package services

import (
	"context"
	"database/sql"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/dbx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/server/models"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/deposits"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/receipts"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/refreshtokens"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// store is an in-memory backing for the fake repositories. It ignores the
// DBTX it is bound to; transactional behaviour is asserted through sqlmock
// Begin/Commit/Rollback expectations instead.
type store struct {
	mu       sync.Mutex
	nextID   uint64
	deposits map[uint64]ledger.Deposit
	balances map[ethcommon.Address]*big.Int
	fees     *big.Int
	receipts []*ledger.Receipt
	tokens   map[string]*models.RefreshToken

	failSave   error
	failLoad   error
	lockedLoad int
}

func newStore() *store {
	return &store{
		deposits: map[uint64]ledger.Deposit{},
		balances: map[ethcommon.Address]*big.Int{},
		fees:     new(big.Int),
		tokens:   map[string]*models.RefreshToken{},
	}
}

type fakeDeposits struct{ s *store }

func (f fakeDeposits) AllocateID(context.Context) (uint64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	id := f.s.nextID
	f.s.nextID++
	return id, nil
}

func (f fakeDeposits) NextID(context.Context) (uint64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.nextID, nil
}

func (f fakeDeposits) Insert(_ context.Context, d *ledger.Deposit) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.deposits[d.ID] = *d
	return nil
}

func (f fakeDeposits) Get(_ context.Context, id uint64) (*ledger.Deposit, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	d, ok := f.s.deposits[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (f fakeDeposits) GetForUpdate(ctx context.Context, id uint64) (*ledger.Deposit, error) {
	f.s.mu.Lock()
	f.s.lockedLoad++
	fail := f.s.failLoad
	f.s.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	return f.Get(ctx, id)
}

func (f fakeDeposits) mark(id uint64, set func(*ledger.Deposit)) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	d, ok := f.s.deposits[id]
	if !ok {
		return common.ErrorNotFound
	}
	switch {
	case d.Claimed:
		return ledger.ErrAlreadyClaimed
	case d.Cancelled:
		return ledger.ErrAlreadyCancelled
	}
	set(&d)
	f.s.deposits[id] = d
	return nil
}

func (f fakeDeposits) MarkClaimed(_ context.Context, id uint64) error {
	return f.mark(id, func(d *ledger.Deposit) { d.Claimed = true })
}

func (f fakeDeposits) MarkCancelled(_ context.Context, id uint64) error {
	return f.mark(id, func(d *ledger.Deposit) { d.Cancelled = true })
}

type fakeAccounts struct{ s *store }

func (f fakeAccounts) Balance(_ context.Context, a ethcommon.Address) (*big.Int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if b, ok := f.s.balances[a]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (f fakeAccounts) Credit(_ context.Context, a ethcommon.Address, amount *big.Int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	b, ok := f.s.balances[a]
	if !ok {
		b = new(big.Int)
	}
	f.s.balances[a] = new(big.Int).Add(b, amount)
	return nil
}

func (f fakeAccounts) Debit(_ context.Context, a ethcommon.Address, amount *big.Int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	b, ok := f.s.balances[a]
	if !ok || b.Cmp(amount) < 0 {
		return ledger.ErrInsufficientFunds
	}
	f.s.balances[a] = new(big.Int).Sub(b, amount)
	return nil
}

func (f fakeAccounts) CollectedFees(context.Context) (*big.Int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return new(big.Int).Set(f.s.fees), nil
}

func (f fakeAccounts) AddFees(_ context.Context, amount *big.Int) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.fees.Add(f.s.fees, amount)
	return nil
}

type fakeReceipts struct{ s *store }

func (f fakeReceipts) Save(_ context.Context, r *ledger.Receipt) (uint64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failSave != nil {
		return 0, f.s.failSave
	}
	r.Sequence = uint64(len(f.s.receipts) + 1)
	f.s.receipts = append(f.s.receipts, r)
	return r.Sequence, nil
}

func (f fakeReceipts) Get(_ context.Context, h ethcommon.Hash) (*ledger.Receipt, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, r := range f.s.receipts {
		if r.TxHash == h {
			return r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeReceipts) ListAfter(_ context.Context, seq uint64, limit int) ([]*ledger.Receipt, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []*ledger.Receipt
	for _, r := range f.s.receipts {
		if r.Sequence > seq && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeRefreshRepo struct {
	s          *store
	consumeErr error
	createErr  error
	purgeErr   error
	created    []string
}

func (f *fakeRefreshRepo) Create(_ context.Context, address, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, address)
	f.s.tokens[token] = &models.RefreshToken{Address: address, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	t, ok := f.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.s.tokens, token)
	return t, nil
}

func (f *fakeRefreshRepo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	var n int64
	for k, t := range f.s.tokens {
		if t.Expires.Before(now) {
			delete(f.s.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	s       *store
	refresh *fakeRefreshRepo
}

func newFakeRepoManager() *fakeRepoManager {
	s := newStore()
	return &fakeRepoManager{s: s, refresh: &fakeRefreshRepo{s: s}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Deposits(dbx.DBTX) deposits.Repository           { return fakeDeposits{m.s} }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository           { return fakeAccounts{m.s} }
func (m *fakeRepoManager) Receipts(dbx.DBTX) receipts.Repository           { return fakeReceipts{m.s} }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
