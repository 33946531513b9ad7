package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestRepositoriesUseTheGivenHandle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := NewPostgresRepositoryManager()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM ledger_counters")).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(4)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM platform_fees")).
		WillReturnRows(sqlmock.NewRows([]string{"collected"}).AddRow("55000000000000"))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	next, err := m.Deposits(tx).NextID(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, next)

	fees, err := m.Accounts(tx).CollectedFees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "55000000000000", fees.String())

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())

	assert.NotNil(t, m.Receipts(db))
	assert.NotNil(t, m.RefreshTokens(db))
}

func TestRunMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("applies from the embedded root", func(t *testing.T) {
		var gotDir string
		stubGoose(t, func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
			gotDir = dir
			return nil
		})

		require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
		assert.Equal(t, ".", gotDir)
	})

	t.Run("wraps goose failures", func(t *testing.T) {
		boom := errors.New("dirty database version 2")
		stubGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
			return boom
		})

		err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "apply ledger migrations")
	})
}
