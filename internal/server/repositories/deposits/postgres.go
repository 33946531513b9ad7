package deposits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/dbx"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const depositCounter = "deposit_id"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AllocateID(ctx context.Context) (uint64, error) {
	query := `
		UPDATE ledger_counters
		SET value = value + 1
		WHERE name = $1
		RETURNING value - 1
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, depositCounter).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return uint64(id), nil
}

func (r *PostgresRepository) NextID(ctx context.Context) (uint64, error) {
	query := `
		SELECT value
		FROM ledger_counters
		WHERE name = $1
	`
	var next int64
	if err := r.db.QueryRowContext(ctx, query, depositCounter).Scan(&next); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return uint64(next), nil
}

func (r *PostgresRepository) Insert(ctx context.Context, d *ledger.Deposit) error {
	query := `
		INSERT INTO deposits (id, depositor, recipient, password_commitment, principal, expiry_time, created_at, claimed, cancelled)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		int64(d.ID),
		d.Depositor.Hex(),
		d.Recipient.Hex(),
		d.PasswordCommitment.Hex(),
		ethx.WeiString(d.Principal),
		d.ExpiryTime,
		d.CreatedAt,
		d.Claimed,
		d.Cancelled,
	)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

const selectDeposit = `
	SELECT id, depositor, recipient, password_commitment, principal::text, expiry_time, created_at, claimed, cancelled
	FROM deposits
	WHERE id = $1
`

func (r *PostgresRepository) Get(ctx context.Context, id uint64) (*ledger.Deposit, error) {
	return r.get(ctx, selectDeposit, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id uint64) (*ledger.Deposit, error) {
	return r.get(ctx, selectDeposit+" FOR UPDATE", id)
}

func (r *PostgresRepository) get(ctx context.Context, query string, id uint64) (*ledger.Deposit, error) {
	var (
		rowID     int64
		depositor string
		recipient string
		commit    string
		principal string
		d         ledger.Deposit
	)

	err := r.db.QueryRowContext(ctx, query, int64(id)).Scan(
		&rowID, &depositor, &recipient, &commit, &principal,
		&d.ExpiryTime, &d.CreatedAt, &d.Claimed, &d.Cancelled,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	amount, err := ethx.ParseWei(principal)
	if err != nil {
		return nil, fmt.Errorf("deposit %d principal %q: %w", rowID, principal, err)
	}

	d.ID = uint64(rowID)
	d.Depositor = ethcommon.HexToAddress(depositor)
	d.Recipient = ethcommon.HexToAddress(recipient)
	d.PasswordCommitment = ethcommon.HexToHash(commit)
	d.Principal = amount
	return &d, nil
}

func (r *PostgresRepository) MarkClaimed(ctx context.Context, id uint64) error {
	return r.resolve(ctx, id, `
		UPDATE deposits
		SET claimed = TRUE
		WHERE id = $1 AND NOT claimed AND NOT cancelled
	`)
}

func (r *PostgresRepository) MarkCancelled(ctx context.Context, id uint64) error {
	return r.resolve(ctx, id, `
		UPDATE deposits
		SET cancelled = TRUE
		WHERE id = $1 AND NOT claimed AND NOT cancelled
	`)
}

func (r *PostgresRepository) resolve(ctx context.Context, id uint64, query string) error {
	res, err := r.db.ExecContext(ctx, query, int64(id))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		d, err := r.Get(ctx, id)
		if err != nil {
			return err
		}
		if d.Claimed {
			return ledger.ErrAlreadyClaimed
		}
		return ledger.ErrAlreadyCancelled
	default:
		return fmt.Errorf("deposit %d: unexpected rows affected %d", id, n)
	}
}
