package services

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

type HistoryType string

const (
	HistorySent     HistoryType = "sent"
	HistoryReceived HistoryType = "received"
)

// HistoryRow is one deposit as seen by the account. A deposit to oneself is
// listed once, as sent.
type HistoryRow struct {
	Deposit   *ledger.Deposit
	Type      HistoryType
	Status    ledger.Status
	CanClaim  bool
	CanCancel bool
}

func newHistoryRow(d *ledger.Deposit, account common.Address, now time.Time) (HistoryRow, bool) {
	sent := ethx.SameAddress(d.Depositor.Hex(), account.Hex())
	received := ethx.SameAddress(d.Recipient.Hex(), account.Hex())
	if !sent && !received {
		return HistoryRow{}, false
	}

	row := HistoryRow{
		Deposit:   d,
		Type:      HistoryReceived,
		Status:    d.Status(now),
		CanClaim:  received && !d.Resolved() && !d.Expired(now),
		CanCancel: sent && !d.Resolved(),
	}
	if sent {
		row.Type = HistorySent
	}
	return row, true
}

func sortNewestFirst(rows []HistoryRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Deposit.ID > rows[j].Deposit.ID })
}

// History scans every deposit id and keeps those the account sent or
// received.
func (s *safeSendService) History(ctx context.Context) ([]HistoryRow, error) {
	account, err := s.from()
	if err != nil {
		return nil, err
	}
	now, err := s.client.GetCurrentTime(ctx)
	if err != nil {
		return nil, err
	}
	next, err := s.client.NextDepositID(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]HistoryRow, 0)
	for id := uint64(0); id < next; id++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := s.client.GetDeposit(ctx, id)
		if err != nil {
			return nil, err
		}
		if row, ok := newHistoryRow(d, account, now); ok {
			rows = append(rows, row)
		}
	}

	sortNewestFirst(rows)
	return rows, nil
}

// IndexedHistory builds the same rows from the server's address index.
func (s *safeSendService) IndexedHistory(ctx context.Context) ([]HistoryRow, error) {
	account, err := s.from()
	if err != nil {
		return nil, err
	}
	now, err := s.client.GetCurrentTime(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.client.ListDeposits(ctx, account)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(entries))
	rows := make([]HistoryRow, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.DepositID]; ok {
			continue
		}
		seen[e.DepositID] = struct{}{}

		d, err := s.GetDeposit(ctx, e.DepositID)
		if err != nil {
			return nil, err
		}
		if row, ok := newHistoryRow(d, account, now); ok {
			rows = append(rows, row)
		}
	}

	sortNewestFirst(rows)
	return rows, nil
}

func (s *safeSendService) history(ctx context.Context) ([]HistoryRow, error) {
	if s.opts.IndexedHistory {
		return s.IndexedHistory(ctx)
	}
	return s.History(ctx)
}

func filterRows(rows []HistoryRow, keep func(HistoryRow) bool) []HistoryRow {
	out := rows[:0]
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Claimable lists deposits the account can claim now.
func (s *safeSendService) Claimable(ctx context.Context) ([]HistoryRow, error) {
	rows, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return filterRows(rows, func(r HistoryRow) bool { return r.CanClaim }), nil
}

// Reclaimable lists the account's unresolved deposits.
func (s *safeSendService) Reclaimable(ctx context.Context) ([]HistoryRow, error) {
	rows, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	return filterRows(rows, func(r HistoryRow) bool { return r.CanCancel }), nil
}
