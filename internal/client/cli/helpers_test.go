package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/safesend/internal/client/client"
	"github.com/dmitrijs2005/safesend/internal/client/config"
	"github.com/dmitrijs2005/safesend/internal/client/services"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/logging"
	"github.com/ethereum/go-ethereum/common"
)

var (
	t0    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

// captureOutput collects everything printed through printlnFn.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

// stubInput answers getSimpleText and getRawText prompts in order and
// records them. Answers are returned verbatim.
func stubInput(t *testing.T, answers ...string) *[]string {
	t.Helper()
	var prompts []string
	origSimple, origRaw := getSimpleText, getRawText
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		prompts = append(prompts, prompt)
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getRawText = getSimpleText
	t.Cleanup(func() {
		getSimpleText = origSimple
		getRawText = origRaw
	})
	return &prompts
}

func stubPasswords(t *testing.T, pws ...string) *[]string {
	t.Helper()
	var prompts []string
	orig := getPassword
	getPassword = func(prompt string, _ io.Writer) ([]byte, error) {
		prompts = append(prompts, prompt)
		if len(pws) == 0 {
			return nil, io.EOF
		}
		p := pws[0]
		pws = pws[1:]
		return []byte(p), nil
	}
	t.Cleanup(func() { getPassword = orig })
	return &prompts
}

func joined(out *[]string) string {
	return strings.Join(*out, "\n")
}

type memRepo struct {
	data map[string][]byte
}

func (m *memRepo) Get(_ context.Context, k string) ([]byte, error) { return m.data[k], nil }
func (m *memRepo) Set(_ context.Context, k string, v []byte) error {
	m.data[k] = v
	return nil
}
func (m *memRepo) Delete(_ context.Context, k string) error {
	delete(m.data, k)
	return nil
}
func (m *memRepo) List(context.Context) (map[string][]byte, error) { return m.data, nil }
func (m *memRepo) Clear(context.Context) error {
	m.data = map[string][]byte{}
	return nil
}

type fakeAuth struct {
	services.AuthService
	loginAddr common.Address
	loginErr  error
	pingErr   error
}

func (f *fakeAuth) Login(_ context.Context, s services.Signer) error {
	f.loginAddr = s.Address()
	return f.loginErr
}

func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }

type fakeSafeSend struct {
	services.SafeSendService

	account   common.Address
	constants *client.Constants
	now       time.Time
	deposits  map[uint64]*ledger.Deposit
	history   []services.HistoryRow

	created   []services.CreateRequest
	claims    []string
	cancelled []uint64
	funded    int
	txErr     error
}

func newFakeSafeSend() *fakeSafeSend {
	return &fakeSafeSend{
		constants: &client.Constants{
			Params:        ledger.DefaultParams(),
			CollectedFees: big.NewInt(0),
			LedgerAddress: common.HexToAddress("0x5afe"),
		},
		now:      t0,
		deposits: map[uint64]*ledger.Deposit{},
	}
}

func (f *fakeSafeSend) UseAccount(a common.Address) { f.account = a }
func (f *fakeSafeSend) Account() common.Address { return f.account }

func (f *fakeSafeSend) Constants(context.Context) (*client.Constants, error) {
	return f.constants, nil
}

func (f *fakeSafeSend) RefreshConstants(context.Context) (*client.Constants, error) {
	return f.constants, nil
}

func (f *fakeSafeSend) Quote(_ context.Context, v *big.Int) (*services.Quote, error) {
	n, fee, p := f.constants.Split(v)
	return &services.Quote{Notification: n, Fee: fee, Principal: p}, nil
}

func (f *fakeSafeSend) Now(context.Context) (time.Time, error) { return f.now, nil }

func (f *fakeSafeSend) Balance(context.Context) (*big.Int, error) {
	return new(big.Int).Mul(big.NewInt(int64(f.funded)), f.constants.FaucetAmount), nil
}

func (f *fakeSafeSend) Fund(_ context.Context, onHash services.HashFunc) (*ledger.Receipt, error) {
	onHash(common.HexToHash("0xf0"))
	f.funded++
	return &ledger.Receipt{Success: true}, nil
}

func (f *fakeSafeSend) CreateDeposit(_ context.Context, req services.CreateRequest, onHash services.HashFunc) (*ledger.DepositCreatedEvent, error) {
	if f.txErr != nil {
		return nil, f.txErr
	}
	onHash(common.HexToHash("0xc0"))
	f.created = append(f.created, req)
	return &ledger.DepositCreatedEvent{DepositID: 7, Recipient: req.Recipient}, nil
}

func (f *fakeSafeSend) Claim(_ context.Context, id uint64, pw string, onHash services.HashFunc) (*ledger.DepositClaimedEvent, error) {
	if f.txErr != nil {
		return nil, f.txErr
	}
	onHash(common.HexToHash("0xc1"))
	f.claims = append(f.claims, fmt.Sprintf("%d:%s", id, pw))
	return &ledger.DepositClaimedEvent{DepositID: id, Amount: f.deposits[id].Principal}, nil
}

func (f *fakeSafeSend) Cancel(_ context.Context, id uint64, onHash services.HashFunc) (*ledger.DepositCancelledEvent, error) {
	onHash(common.HexToHash("0xca"))
	f.cancelled = append(f.cancelled, id)
	return &ledger.DepositCancelledEvent{DepositID: id, Amount: f.deposits[id].Principal}, nil
}

func (f *fakeSafeSend) GetDeposit(_ context.Context, id uint64) (*ledger.Deposit, error) {
	d, ok := f.deposits[id]
	if !ok {
		return nil, ledger.ErrDepositNotFound
	}
	return d, nil
}

func (f *fakeSafeSend) History(context.Context) ([]services.HistoryRow, error) {
	return f.history, nil
}

func (f *fakeSafeSend) IndexedHistory(context.Context) ([]services.HistoryRow, error) {
	return f.history, nil
}

func (f *fakeSafeSend) Claimable(context.Context) ([]services.HistoryRow, error) {
	var out []services.HistoryRow
	for _, r := range f.history {
		if r.CanClaim {
			out = append(out, r)
		}
	}
	return out, nil
}

type testApp struct {
	*App
	auth *fakeAuth
	ss   *fakeSafeSend
	repo *memRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.KeystorePath = filepath.Join(t.TempDir(), "keystore.json")

	fa := &fakeAuth{}
	fs := newFakeSafeSend()
	repo := &memRepo{data: map[string][]byte{}}

	app := &App{
		config:     cfg,
		logger:     logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		auth:       fa,
		safeSend:   fs,
		onboarding: services.NewOnboardingService(repo),
		prefs:      services.NewPreferencesService(repo),
		reader:     bufio.NewReader(strings.NewReader("")),
		out:        io.Discard,
	}
	return &testApp{App: app, auth: fa, ss: fs, repo: repo}
}

// loggedIn marks the app signed in as addr without a real wallet.
func (ta *testApp) loggedInAs(addr common.Address) *testApp {
	ta.loggedIn = true
	ta.ss.UseAccount(addr)
	return ta
}

func pendingDeposit(id uint64, from, to common.Address) *ledger.Deposit {
	return &ledger.Deposit{
		ID:         id,
		Depositor:  from,
		Recipient:  to,
		Principal:  big.NewInt(9_945_000_000_000_000),
		CreatedAt:  t0.Add(-2 * time.Hour).Unix(),
		ExpiryTime: t0.Add(30 * time.Minute).Unix(),
	}
}
