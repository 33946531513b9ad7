package services

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/dmitrijs2005/safesend/internal/client/client"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/ledger/ledgertest"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0    = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x00000000000000000000000000000000000ca201")
	dave  = common.HexToAddress("0x0000000000000000000000000000000000000da4")
)

type party struct {
	svc    SafeSendService
	client *fakeClient
}

func newParty(l *ledgertest.Ledger, addr common.Address, opts Options) party {
	fc := newFakeClient(l, addr)
	svc := NewSafeSendService(fc, opts)
	svc.UseAccount(addr)
	return party{svc: svc, client: fc}
}

func send(t *testing.T, p party, to common.Address, password string) uint64 {
	t.Helper()
	ev, err := p.svc.CreateDeposit(context.Background(), CreateRequest{
		Recipient:     to,
		Password:      password,
		ExpiryMinutes: 60,
		Value:         ethx.Ether(11, 3),
	}, nil)
	require.NoError(t, err)
	return ev.DepositID
}

func ids(rows []HistoryRow) []uint64 {
	out := make([]uint64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Deposit.ID)
	}
	return out
}

func TestDepositLifecycle(t *testing.T) {
	ctx := context.Background()
	l := ledgertest.New(t0)
	a := newParty(l, alice, Options{ReceiptTimeout: time.Second})
	b := newParty(l, bob, Options{})

	rc, err := a.svc.Fund(ctx, nil)
	require.NoError(t, err)
	assert.True(t, rc.Success)

	balance, err := a.svc.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(ethx.Ether(1, 0)))

	var hashes []common.Hash
	onHash := func(h common.Hash) { hashes = append(hashes, h) }

	created, err := a.svc.CreateDeposit(ctx, CreateRequest{
		Recipient:     bob,
		Password:      "correct horse",
		ExpiryMinutes: 60,
		Value:         ethx.Ether(11, 3),
	}, onHash)
	require.NoError(t, err)
	require.Len(t, hashes, 1)
	assert.Equal(t, uint64(0), created.DepositID)
	assert.Equal(t, bob, created.Recipient)
	assert.Equal(t, 0, created.Amount.Cmp(big.NewInt(9_945_000_000_000_000)))
	assert.Equal(t, t0.Unix()+3600, created.ExpiryTime)

	notified, err := b.svc.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, notified.Cmp(ethx.Ether(1, 3)))

	_, err = b.svc.Claim(ctx, 0, "wrong", onHash)
	assert.ErrorIs(t, err, ledger.ErrWrongPassword)
	assert.True(t, ledger.Retryable(err))
	assert.Len(t, hashes, 2)

	claimed, err := b.svc.Claim(ctx, 0, "correct horse", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, claimed.Amount.Cmp(created.Amount))

	_, err = b.svc.Claim(ctx, 0, "correct horse", nil)
	assert.ErrorIs(t, err, ledger.ErrAlreadyClaimed)

	_, err = a.svc.Cancel(ctx, 0, nil)
	assert.ErrorIs(t, err, ledger.ErrAlreadyClaimed)

	d, err := a.svc.GetDeposit(ctx, 0)
	require.NoError(t, err)
	assert.True(t, d.Claimed)
	assert.False(t, d.Cancelled)

	c, err := a.svc.RefreshConstants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, c.CollectedFees.Cmp(big.NewInt(55_000_000_000_000)))
}

func TestCancelThenClaim(t *testing.T) {
	ctx := context.Background()
	l := ledgertest.New(t0)
	l.Fund(alice, ethx.Ether(1, 0))
	a := newParty(l, alice, Options{})
	b := newParty(l, bob, Options{})

	id := send(t, a, bob, "pw")

	_, err := b.svc.Cancel(ctx, id, nil)
	assert.ErrorIs(t, err, ledger.ErrNotDepositor)

	cancelled, err := a.svc.Cancel(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, alice, cancelled.Depositor)

	_, err = b.svc.Claim(ctx, id, "pw", nil)
	assert.ErrorIs(t, err, ledger.ErrAlreadyCancelled)
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	l := ledgertest.New(t0)
	l.Fund(alice, ethx.Ether(1, 0))
	a := newParty(l, alice, Options{})
	b := newParty(l, bob, Options{})

	id := send(t, a, bob, "pw")
	l.SetTime(t0.Add(time.Hour))

	expired, err := b.svc.IsExpired(ctx, id)
	require.NoError(t, err)
	assert.True(t, expired)

	_, err = b.svc.Claim(ctx, id, "pw", nil)
	assert.ErrorIs(t, err, ledger.ErrDepositExpired)

	rows, err := b.svc.Claimable(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = a.svc.Cancel(ctx, id, nil)
	require.NoError(t, err)
}

func TestLocalValidation_NeverSubmits(t *testing.T) {
	ctx := context.Background()
	l := ledgertest.New(t0)
	l.Fund(alice, ethx.Ether(1, 0))
	a := newParty(l, alice, Options{})

	valid := CreateRequest{Recipient: bob, Password: "pw", ExpiryMinutes: 60, Value: ethx.Ether(11, 3)}

	tests := []struct {
		name   string
		modify func(*CreateRequest)
		want   error
	}{
		{"empty password", func(r *CreateRequest) { r.Password = "" }, ledger.ErrEmptyPassword},
		{"zero recipient", func(r *CreateRequest) { r.Recipient = common.Address{} }, ledger.ErrInvalidRecipient},
		{"zero expiry", func(r *CreateRequest) { r.ExpiryMinutes = 0 }, ledger.ErrInvalidExpiry},
		{"expiry too long", func(r *CreateRequest) { r.ExpiryMinutes = 525_601 }, ledger.ErrInvalidExpiry},
		{"no value", func(r *CreateRequest) { r.Value = nil }, ledger.ErrInvalidAmount},
		{"below floor", func(r *CreateRequest) { r.Value = ethx.Ether(10, 3) }, ledger.ErrValueBelowMinimum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			_, err := a.svc.CreateDeposit(ctx, req, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := a.svc.Claim(ctx, 0, "", nil)
	assert.ErrorIs(t, err, ledger.ErrEmptyPassword)

	assert.Zero(t, a.client.submitted)
}

func TestNoAccount(t *testing.T) {
	ctx := context.Background()
	svc := NewSafeSendService(newFakeClient(ledgertest.New(t0), common.Address{}), Options{})

	_, err := svc.Balance(ctx)
	assert.ErrorIs(t, err, client.ErrNoWallet)
	_, err = svc.Fund(ctx, nil)
	assert.ErrorIs(t, err, client.ErrNoWallet)
	_, err = svc.CreateDeposit(ctx, CreateRequest{}, nil)
	assert.ErrorIs(t, err, client.ErrNoWallet)
	_, err = svc.Claim(ctx, 0, "pw", nil)
	assert.ErrorIs(t, err, client.ErrNoWallet)
	_, err = svc.Cancel(ctx, 0, nil)
	assert.ErrorIs(t, err, client.ErrNoWallet)
	_, err = svc.History(ctx)
	assert.ErrorIs(t, err, client.ErrNoWallet)
}

func TestFund_DisabledFaucetIsCaughtLocally(t *testing.T) {
	p := ledger.DefaultParams()
	p.FaucetAmount = new(big.Int)
	e, err := ledger.NewEngine(p, common.HexToAddress("0x5afe"))
	require.NoError(t, err)

	a := newParty(ledgertest.NewWithEngine(e, t0), alice, Options{})
	_, err = a.svc.Fund(context.Background(), nil)
	assert.ErrorIs(t, err, ledger.ErrFaucetDisabled)
	assert.Zero(t, a.client.submitted)
}

func TestFund_LimitReverts(t *testing.T) {
	l := ledgertest.New(t0)
	l.Fund(alice, ethx.Ether(2, 0))
	a := newParty(l, alice, Options{})

	rc, err := a.svc.Fund(context.Background(), nil)
	assert.ErrorIs(t, err, ledger.ErrFaucetLimit)
	require.NotNil(t, rc)
	assert.False(t, rc.Success)
}

func TestWaitFailureIsReportedAsPending(t *testing.T) {
	tests := []struct {
		name    string
		waitErr error
	}{
		{"receipt deadline", context.DeadlineExceeded},
		{"connection lost", client.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledgertest.New(t0)
			a := newParty(l, alice, Options{ReceiptTimeout: time.Millisecond})
			a.client.waitErr = tt.waitErr

			var got common.Hash
			_, err := a.svc.Fund(context.Background(), func(h common.Hash) { got = h })
			assert.ErrorIs(t, err, client.ErrReceiptPending)
			assert.ErrorIs(t, err, tt.waitErr)
			assert.NotEqual(t, common.Hash{}, got)
			assert.Contains(t, err.Error(), got.Hex())
			assert.Equal(t, client.CodeTransactionPending, client.Classify(err))
		})
	}
}

func TestConstantsAreCached(t *testing.T) {
	ctx := context.Background()
	a := newParty(ledgertest.New(t0), alice, Options{})

	first, err := a.svc.Constants(ctx)
	require.NoError(t, err)

	a.client.constantErr = errors.New("offline")
	second, err := a.svc.Constants(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = a.svc.RefreshConstants(ctx)
	assert.Error(t, err)
}

func TestQuote(t *testing.T) {
	a := newParty(ledgertest.New(t0), alice, Options{})

	q, err := a.svc.Quote(context.Background(), ethx.Ether(11, 3))
	require.NoError(t, err)
	assert.Equal(t, "0.001", ethx.FormatEther(q.Notification))
	assert.Equal(t, "0.000055", ethx.FormatEther(q.Fee))
	assert.Equal(t, "0.009945", ethx.FormatEther(q.Principal))
}

func TestGetDeposit_Unknown(t *testing.T) {
	a := newParty(ledgertest.New(t0), alice, Options{})
	_, err := a.svc.GetDeposit(context.Background(), 42)
	assert.ErrorIs(t, err, ledger.ErrDepositNotFound)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	l := ledgertest.New(t0)
	for _, addr := range []common.Address{alice, bob, carol} {
		l.Fund(addr, ethx.Ether(1, 0))
	}
	a := newParty(l, alice, Options{})
	b := newParty(l, bob, Options{})
	c := newParty(l, carol, Options{})

	send(t, a, bob, "pw0")
	send(t, a, alice, "pw1")
	send(t, b, alice, "pw2")
	send(t, c, dave, "pw3")
	_, err := b.svc.Claim(ctx, 0, "pw0", nil)
	require.NoError(t, err)

	rows, err := a.svc.History(ctx)
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 1, 0}, ids(rows))

	assert.Equal(t, HistoryReceived, rows[0].Type)
	assert.True(t, rows[0].CanClaim)
	assert.False(t, rows[0].CanCancel)

	assert.Equal(t, HistorySent, rows[1].Type)
	assert.True(t, rows[1].CanCancel)

	assert.Equal(t, HistorySent, rows[2].Type)
	assert.Equal(t, ledger.StatusClaimed, rows[2].Status)
	assert.False(t, rows[2].CanCancel)
	assert.False(t, rows[2].CanClaim)

	indexed, err := a.svc.IndexedHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, indexed)

	claimable, err := a.svc.Claimable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, ids(claimable))

	reclaimable, err := a.svc.Reclaimable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids(reclaimable))
}

func TestClaimable_UsesIndexWhenConfigured(t *testing.T) {
	ctx := context.Background()
	l := ledgertest.New(t0)
	l.Fund(alice, ethx.Ether(1, 0))
	a := newParty(l, alice, Options{})
	b := newParty(l, bob, Options{IndexedHistory: true})

	send(t, a, bob, "pw")

	rows, err := b.svc.Claimable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0}, ids(rows))
	assert.Zero(t, b.client.nextIDCalls)
}
