package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/safesend/internal/client/passgen"
	"github.com/dmitrijs2005/safesend/internal/client/services"
	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// ExpiryOptions are the deposit lifetimes offered by send, in minutes.
var ExpiryOptions = []int64{30, 60, 120, 360, 720, 1440}

const defaultExpiryOption = 2

func (a *App) reportHash(h ethcommon.Hash) {
	printlnFn("Submitted", h.Hex()+", waiting for confirmation...")
}

func (a *App) chooseExpiry() (int64, error) {
	printlnFn("Expires after:")
	for i, m := range ExpiryOptions {
		printlnFn(fmt.Sprintf("  %d) %s", i+1, formatMinutes(m)))
	}

	s, err := getSimpleText(a.reader, fmt.Sprintf("Choose 1-%d [%d]", len(ExpiryOptions), defaultExpiryOption), a.out)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return ExpiryOptions[defaultExpiryOption-1], nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > len(ExpiryOptions) {
		return 0, ledger.ErrInvalidExpiry
	}
	return ExpiryOptions[n-1], nil
}

func (a *App) depositID(args []string) (uint64, error) {
	s := ""
	if len(args) > 0 {
		s = args[0]
	} else {
		var err error
		if s, err = getSimpleText(a.reader, "Deposit id", a.out); err != nil {
			return 0, err
		}
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a deposit id", ledger.ErrDepositNotFound, s)
	}
	return id, nil
}

// Send locks ETH for a recipient behind a password.
func (a *App) Send(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	c, err := a.safeSend.Constants(ctx)
	if err != nil {
		return err
	}

	to, err := getSimpleText(a.reader, "Recipient address", a.out)
	if err != nil {
		return err
	}
	recipient, err := ethx.ParseAddress(to)
	if err != nil {
		return err
	}

	amount, err := getSimpleText(a.reader, fmt.Sprintf("Amount in ETH (at least %s)", ethx.FormatEther(c.Floor())), a.out)
	if err != nil {
		return err
	}
	value, err := ethx.ParseEther(amount)
	if err != nil {
		return ledger.ErrInvalidAmount
	}
	if value.Cmp(c.Floor()) < 0 {
		return ledger.ErrValueBelowMinimum
	}

	minutes, err := a.chooseExpiry()
	if err != nil {
		return err
	}

	password, err := getRawText(a.reader, "Password for the recipient (empty to generate one)", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(password) == "" {
		if password, err = passgen.Generate(); err != nil {
			return err
		}
		printlnFn("Generated password:", password)
	}

	q, err := a.safeSend.Quote(ctx, value)
	if err != nil {
		return err
	}
	printlnFn("To:             ", recipient.Hex())
	printlnFn("You send:       ", formatETH(value))
	printlnFn("Notification:   ", formatETH(q.Notification), "(paid to the recipient now)")
	printlnFn("Platform fee:   ", formatETH(q.Fee))
	printlnFn("Claimable:      ", formatETH(q.Principal))
	printlnFn("Expires after:  ", formatMinutes(minutes))
	printlnFn("Password:       ", strconv.Quote(password))

	if err := Confirm(a.reader, "Send this deposit?", a.out); err != nil {
		return err
	}

	ev, err := a.safeSend.CreateDeposit(ctx, services.CreateRequest{
		Recipient:     recipient,
		Password:      password,
		ExpiryMinutes: minutes,
		Value:         value,
	}, a.reportHash)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Deposit #%d created.", ev.DepositID))
	printlnFn("Share the deposit id and the password with the recipient.")
	return nil
}

// Claim takes a deposit addressed to the user.
func (a *App) Claim(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.depositID(args)
	if err != nil {
		return err
	}
	d, err := a.safeSend.GetDeposit(ctx, id)
	if err != nil {
		return err
	}
	now, err := a.safeSend.Now(ctx)
	if err != nil {
		return err
	}
	printDeposit(d, now)

	switch d.Status(now) {
	case ledger.StatusClaimed:
		return ledger.ErrAlreadyClaimed
	case ledger.StatusCancelled:
		return ledger.ErrAlreadyCancelled
	case ledger.StatusExpired:
		return ledger.ErrDepositExpired
	}

	password, err := getPassword("Deposit password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := Confirm(a.reader, fmt.Sprintf("Claim %s from deposit #%d?", formatETH(d.Principal), id), a.out); err != nil {
		return err
	}

	ev, err := a.safeSend.Claim(ctx, id, string(password), a.reportHash)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Claimed %s from deposit #%d.", formatETH(ev.Amount), ev.DepositID))
	return nil
}

// Reclaim cancels one of the user's deposits and returns its principal.
func (a *App) Reclaim(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.depositID(args)
	if err != nil {
		return err
	}
	d, err := a.safeSend.GetDeposit(ctx, id)
	if err != nil {
		return err
	}
	now, err := a.safeSend.Now(ctx)
	if err != nil {
		return err
	}
	printDeposit(d, now)

	switch {
	case !ethx.SameAddress(d.Depositor.Hex(), a.safeSend.Account().Hex()):
		return ledger.ErrNotDepositor
	case d.Claimed:
		return ledger.ErrAlreadyClaimed
	case d.Cancelled:
		return ledger.ErrAlreadyCancelled
	}

	if err := Confirm(a.reader, fmt.Sprintf("Reclaim %s from deposit #%d?", formatETH(d.Principal), id), a.out); err != nil {
		return err
	}

	ev, err := a.safeSend.Cancel(ctx, id, a.reportHash)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Reclaimed %s from deposit #%d.", formatETH(ev.Amount), ev.DepositID))
	return nil
}

func (a *App) printRows(ctx context.Context, rows []services.HistoryRow, empty string) error {
	if len(rows) == 0 {
		printlnFn(empty)
		return nil
	}
	now, err := a.safeSend.Now(ctx)
	if err != nil {
		return err
	}
	for _, r := range rows {
		printlnFn(formatRow(r, now))
	}
	return nil
}

// Pending lists deposits the user can claim now.
func (a *App) Pending(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	rows, err := a.safeSend.Claimable(ctx)
	if err != nil {
		return err
	}
	return a.printRows(ctx, rows, "No deposits waiting for you.")
}

func (a *App) History(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	var (
		rows []services.HistoryRow
		err  error
	)
	if a.config.IndexedHistory {
		rows, err = a.safeSend.IndexedHistory(ctx)
	} else {
		rows, err = a.safeSend.History(ctx)
	}
	if err != nil {
		return err
	}
	return a.printRows(ctx, rows, "No deposits yet.")
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: show <id>")
		return nil
	}
	id, err := a.depositID(args)
	if err != nil {
		return err
	}
	d, err := a.safeSend.GetDeposit(ctx, id)
	if err != nil {
		return err
	}
	now, err := a.safeSend.Now(ctx)
	if err != nil {
		return err
	}
	printDeposit(d, now)
	return nil
}
