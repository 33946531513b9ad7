package indexer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/ledger/ledgertest"
	"github.com/dmitrijs2005/safesend/internal/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	t0    = time.Unix(1_700_000_000, 0)
)

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func execute(t *testing.T, l *ledgertest.Ledger, tx *ledger.Transaction) *ledger.Receipt {
	t.Helper()
	tx.Seal(t0)
	rc, err := l.Execute(context.Background(), tx)
	require.NoError(t, err)
	return rc
}

func create(from, to common.Address) *ledger.Transaction {
	return ledger.NewCreate(from, to, ethx.PasswordCommitment("pw"), 60, ethx.Ether(11, 3))
}

func TestIndex_ReplayPagesThroughHistory(t *testing.T) {
	l := ledgertest.New(t0)
	l.Fund(alice, ethx.Ether(1, 0))
	l.Fund(bob, ethx.Ether(1, 0))

	execute(t, l, create(alice, bob))
	execute(t, l, ledger.NewCancel(alice, 0))
	execute(t, l, create(bob, alice))
	execute(t, l, create(alice, alice))
	execute(t, l, ledger.NewClaim(bob, 99, "pw")) // reverted

	idx := New(nopLogger())
	idx.pageSize = 2
	require.NoError(t, idx.Replay(context.Background(), l))

	assert.Equal(t, []Entry{
		{DepositID: 0, Role: RoleSent},
		{DepositID: 1, Role: RoleReceived},
		{DepositID: 2, Role: RoleSent},
		{DepositID: 2, Role: RoleReceived},
	}, idx.ListDeposits(alice))
	assert.Equal(t, []Entry{
		{DepositID: 0, Role: RoleReceived},
		{DepositID: 1, Role: RoleSent},
	}, idx.ListDeposits(bob))
	assert.Empty(t, idx.ListDeposits(common.HexToAddress("0x01")))
}

func TestIndex_FollowsFinalizedReceiptsOnce(t *testing.T) {
	l := ledgertest.New(t0)
	l.Fund(alice, ethx.Ether(1, 0))

	idx := New(nopLogger())
	rc := execute(t, l, create(alice, bob))
	idx.Finalized(context.Background(), rc)

	// replay after the observer saw the receipt must not double count
	require.NoError(t, idx.Replay(context.Background(), l))
	idx.Finalized(context.Background(), rc)

	assert.Len(t, idx.ListDeposits(bob), 1)
}

func TestIndex_ListDepositsReturnsCopy(t *testing.T) {
	l := ledgertest.New(t0)
	l.Fund(alice, ethx.Ether(1, 0))
	idx := New(nopLogger())
	idx.Finalized(context.Background(), execute(t, l, create(alice, bob)))

	got := idx.ListDeposits(bob)
	got[0].DepositID = 42
	assert.Equal(t, uint64(0), idx.ListDeposits(bob)[0].DepositID)
}

type failingSource struct{}

func (failingSource) ReceiptsAfter(context.Context, uint64, int) ([]*ledger.Receipt, error) {
	return nil, errors.New("db down")
}

func TestIndex_ReplayError(t *testing.T) {
	err := New(nopLogger()).Replay(context.Background(), failingSource{})
	assert.ErrorContains(t, err, "db down")
}
