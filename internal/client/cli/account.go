package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/safesend/internal/client/passgen"
)

func (a *App) Balance(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	bal, err := a.safeSend.Balance(ctx)
	if err != nil {
		return err
	}
	printlnFn("Balance:", formatETH(bal))
	return nil
}

// Faucet tops the account up with test ETH.
func (a *App) Faucet(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	c, err := a.safeSend.Constants(ctx)
	if err != nil {
		return err
	}
	if err := Confirm(a.reader, fmt.Sprintf("Request %s from the faucet?", formatETH(c.FaucetAmount)), a.out); err != nil {
		return err
	}

	if _, err := a.safeSend.Fund(ctx, a.reportHash); err != nil {
		return err
	}
	printlnFn("Funded.")
	return a.Balance(ctx)
}

func (a *App) Constants(ctx context.Context) error {
	c, err := a.safeSend.RefreshConstants(ctx)
	if err != nil {
		return err
	}
	printlnFn("Ledger:             ", c.LedgerAddress.Hex())
	printlnFn("Notification amount:", formatETH(c.NotificationAmount))
	printlnFn("Minimum deposit:    ", formatETH(c.MinDeposit))
	printlnFn("Smallest send:      ", formatETH(c.Floor()))
	printlnFn("Platform fee:       ", fmt.Sprintf("%d bps", c.PlatformFeeBps))
	printlnFn("Collected fees:     ", formatETH(c.CollectedFees))
	printlnFn("Claim policy:       ", string(c.ClaimPolicy))
	printlnFn("Faucet amount:      ", formatETH(c.FaucetAmount))
	printlnFn("Longest expiry:     ", formatMinutes(c.MaxExpiryMinutes))
	return nil
}

func (a *App) GenPass(context.Context) error {
	pw, err := passgen.Generate()
	if err != nil {
		return err
	}
	printlnFn(pw)
	return nil
}
