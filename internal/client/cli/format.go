package cli

import (
	"fmt"
	"math/big"
	"time"

	"github.com/dmitrijs2005/safesend/internal/client/services"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/timex"
	"github.com/ethereum/go-ethereum/common"
)

func formatETH(wei *big.Int) string {
	return ethx.FormatEther(wei) + " ETH"
}

// shortAddress renders 0x1234...abcd.
func shortAddress(addr common.Address) string {
	h := addr.Hex()
	return h[:6] + "..." + h[len(h)-4:]
}

func formatMinutes(m int64) string {
	var t0 time.Time
	return timex.Until(t0, t0.Add(time.Duration(m)*time.Minute))
}

func formatRow(r services.HistoryRow, now time.Time) string {
	d := r.Deposit

	dir, other := "to", d.Recipient
	if r.Type == services.HistoryReceived {
		dir, other = "from", d.Depositor
	}

	line := fmt.Sprintf("#%-4d %-8s %-9s %s %s %s, created %s",
		d.ID, r.Type, r.Status, formatETH(d.Principal), dir, shortAddress(other),
		timex.Ago(now, time.Unix(d.CreatedAt, 0)))

	switch {
	case r.CanClaim && r.Status == ledger.StatusPending:
		line += ", expires in " + timex.Until(now, time.Unix(d.ExpiryTime, 0)) + " [claimable]"
	case r.CanCancel:
		line += " [reclaimable]"
	}
	return line
}

func printDeposit(d *ledger.Deposit, now time.Time) {
	expiry := time.Unix(d.ExpiryTime, 0)

	printlnFn(fmt.Sprintf("Deposit #%d", d.ID))
	printlnFn("  Status:    ", string(d.Status(now)))
	printlnFn("  Amount:    ", formatETH(d.Principal))
	printlnFn("  From:      ", d.Depositor.Hex())
	printlnFn("  To:        ", d.Recipient.Hex())
	printlnFn("  Created:   ", timex.Ago(now, time.Unix(d.CreatedAt, 0)))
	if d.Expired(now) {
		printlnFn("  Expired:   ", timex.Ago(now, expiry))
	} else {
		printlnFn("  Expires in:", timex.Until(now, expiry))
	}
}
