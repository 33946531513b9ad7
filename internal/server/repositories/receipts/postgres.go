package receipts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	appcommon "github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/dbx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, rc *ledger.Receipt) (uint64, error) {
	logs := rc.Logs
	if logs == nil {
		logs = []ledger.Log{}
	}
	raw, err := json.Marshal(logs)
	if err != nil {
		return 0, fmt.Errorf("marshal logs: %w", err)
	}

	query := `
		INSERT INTO receipts (tx_hash, kind, from_address, success, reason, gas_used, logs, finalized_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)
		RETURNING seq
	`
	var seq int64
	err = r.db.QueryRowContext(ctx, query,
		rc.TxHash.Hex(),
		string(rc.Kind),
		rc.From.Hex(),
		rc.Success,
		rc.Reason,
		int64(rc.GasUsed),
		string(raw),
		rc.FinalizedAt,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %v", err)
	}

	rc.Sequence = uint64(seq)
	return rc.Sequence, nil
}

const selectReceipt = `
	SELECT seq, tx_hash, kind, from_address, success, reason, gas_used, logs::text, finalized_at
	FROM receipts
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*ledger.Receipt, error) {
	var (
		seq     int64
		hash    string
		kind    string
		from    string
		gasUsed int64
		logs    string
		rc      ledger.Receipt
	)
	if err := row.Scan(&seq, &hash, &kind, &from, &rc.Success, &rc.Reason, &gasUsed, &logs, &rc.FinalizedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(logs), &rc.Logs); err != nil {
		return nil, fmt.Errorf("receipt %s logs: %w", hash, err)
	}
	if rc.Logs == nil {
		rc.Logs = []ledger.Log{}
	}

	rc.Sequence = uint64(seq)
	rc.TxHash = common.HexToHash(hash)
	rc.Kind = ledger.Kind(kind)
	rc.From = common.HexToAddress(from)
	rc.GasUsed = uint64(gasUsed)
	return &rc, nil
}

func (r *PostgresRepository) Get(ctx context.Context, hash common.Hash) (*ledger.Receipt, error) {
	rc, err := scanReceipt(r.db.QueryRowContext(ctx, selectReceipt+" WHERE tx_hash = $1", hash.Hex()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appcommon.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rc, nil
}

func (r *PostgresRepository) ListAfter(ctx context.Context, seq uint64, limit int) ([]*ledger.Receipt, error) {
	rows, err := r.db.QueryContext(ctx, selectReceipt+" WHERE seq > $1 ORDER BY seq LIMIT $2", int64(seq), limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*ledger.Receipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
