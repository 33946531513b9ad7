package services

import (
	"context"
	"math/big"
	"time"

	"github.com/dmitrijs2005/safesend/internal/api"
	"github.com/dmitrijs2005/safesend/internal/client/client"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/ledger/ledgertest"
	"github.com/ethereum/go-ethereum/common"
)

// fakeClient runs transactions straight against an in-memory ledger as the
// logged-in address. Unused Client methods panic through the nil embed.
type fakeClient struct {
	client.Client

	ledger *ledgertest.Ledger
	from   common.Address

	receipts map[common.Hash]*ledger.Receipt

	submitted   int
	waitErr     error
	constantErr error
	nextIDCalls int

	challenge      string
	challengeToken string
	loginAddress   common.Address
	loginToken     string
	loginSig       []byte
	loginErr       error
	loggedOut      bool
}

func newFakeClient(l *ledgertest.Ledger, from common.Address) *fakeClient {
	return &fakeClient{ledger: l, from: from, receipts: map[common.Hash]*ledger.Receipt{}}
}

func (f *fakeClient) Close() error { return nil }
func (f *fakeClient) Ping(context.Context) error { return nil }
func (f *fakeClient) Logout() { f.loggedOut = true }

func (f *fakeClient) GetChallenge(_ context.Context, address common.Address) (string, string, error) {
	return f.challenge, f.challengeToken, nil
}

func (f *fakeClient) Login(_ context.Context, address common.Address, token string, sig []byte) error {
	f.loginAddress, f.loginToken, f.loginSig = address, token, sig
	if f.loginErr == nil {
		f.from = address
	}
	return f.loginErr
}

func (f *fakeClient) GetConstants(ctx context.Context) (*client.Constants, error) {
	if f.constantErr != nil {
		return nil, f.constantErr
	}
	fees, _ := f.ledger.CollectedFees(ctx)
	return &client.Constants{Params: f.ledger.Params(), CollectedFees: fees, LedgerAddress: f.ledger.LedgerAddress()}, nil
}

func (f *fakeClient) GetCurrentTime(context.Context) (time.Time, error) {
	return f.ledger.CurrentTime(), nil
}

func (f *fakeClient) GetDeposit(ctx context.Context, id uint64) (*ledger.Deposit, error) {
	d, err := f.ledger.GetDeposit(ctx, id)
	if err == ledger.ErrDepositNotFound {
		return &ledger.Deposit{Principal: new(big.Int)}, nil
	}
	return d, err
}

func (f *fakeClient) IsExpired(ctx context.Context, id uint64) (bool, error) {
	return f.ledger.IsExpired(ctx, id)
}

func (f *fakeClient) NextDepositID(ctx context.Context) (uint64, error) {
	f.nextIDCalls++
	return f.ledger.NextDepositID(ctx)
}

func (f *fakeClient) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	return f.ledger.Balance(ctx, address)
}

func (f *fakeClient) ListDeposits(ctx context.Context, address common.Address) ([]api.IndexEntry, error) {
	next, _ := f.ledger.NextDepositID(ctx)
	var out []api.IndexEntry
	for id := uint64(0); id < next; id++ {
		d, _ := f.ledger.GetDeposit(ctx, id)
		if d.Depositor == address {
			out = append(out, api.IndexEntry{DepositID: id, Role: "depositor"})
		}
		if d.Recipient == address {
			out = append(out, api.IndexEntry{DepositID: id, Role: "recipient"})
		}
	}
	return out, nil
}

func (f *fakeClient) submit(ctx context.Context, tx *ledger.Transaction) (common.Hash, error) {
	f.submitted++
	tx.Seal(f.ledger.CurrentTime())
	rc, err := f.ledger.Execute(ctx, tx)
	if err != nil {
		return common.Hash{}, err
	}
	f.receipts[tx.Hash] = rc
	return tx.Hash, nil
}

func (f *fakeClient) SubmitCreateDeposit(ctx context.Context, recipient common.Address, commitment common.Hash, expiryMinutes int64, value *big.Int) (common.Hash, error) {
	return f.submit(ctx, ledger.NewCreate(f.from, recipient, commitment, expiryMinutes, value))
}

func (f *fakeClient) SubmitClaim(ctx context.Context, id uint64, password string) (common.Hash, error) {
	return f.submit(ctx, ledger.NewClaim(f.from, id, password))
}

func (f *fakeClient) SubmitCancel(ctx context.Context, id uint64) (common.Hash, error) {
	return f.submit(ctx, ledger.NewCancel(f.from, id))
}

func (f *fakeClient) SubmitFund(ctx context.Context) (common.Hash, error) {
	return f.submit(ctx, ledger.NewFund(f.from))
}

func (f *fakeClient) WaitReceipt(ctx context.Context, hash common.Hash) (*ledger.Receipt, error) {
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return f.receipts[hash], nil
}
