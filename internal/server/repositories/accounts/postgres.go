package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/safesend/internal/dbx"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	query := `
		SELECT balance::text
		FROM accounts
		WHERE address = $1
	`
	var raw string
	if err := r.db.QueryRowContext(ctx, query, addr.Hex()).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return new(big.Int), nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return parseAmount(raw)
}

func (r *PostgresRepository) Credit(ctx context.Context, addr common.Address, amount *big.Int) error {
	query := `
		INSERT INTO accounts (address, balance)
		VALUES ($1, $2::numeric)
		ON CONFLICT (address) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
	`
	if _, err := r.db.ExecContext(ctx, query, addr.Hex(), ethx.WeiString(amount)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Debit(ctx context.Context, addr common.Address, amount *big.Int) error {
	query := `
		UPDATE accounts
		SET balance = balance - $2::numeric
		WHERE address = $1 AND balance >= $2::numeric
	`
	res, err := r.db.ExecContext(ctx, query, addr.Hex(), ethx.WeiString(amount))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return ledger.ErrInsufficientFunds
	}
	return nil
}

func (r *PostgresRepository) CollectedFees(ctx context.Context) (*big.Int, error) {
	query := `
		SELECT collected::text
		FROM platform_fees
		WHERE id = 1
	`
	var raw string
	if err := r.db.QueryRowContext(ctx, query).Scan(&raw); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return parseAmount(raw)
}

func (r *PostgresRepository) AddFees(ctx context.Context, amount *big.Int) error {
	query := `
		UPDATE platform_fees
		SET collected = collected + $1::numeric
		WHERE id = 1
	`
	if _, err := r.db.ExecContext(ctx, query, ethx.WeiString(amount)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func parseAmount(raw string) (*big.Int, error) {
	v, err := ethx.ParseWei(raw)
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", raw, err)
	}
	return v, nil
}
