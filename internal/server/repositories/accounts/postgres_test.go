package accounts

import (
	"context"
	"database/sql"
	"errors"
	"math/big"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	qBalance = `(?s)^SELECT\s+balance::text\s+FROM\s+accounts\s+WHERE\s+address\s*=\s*\$1$`
	qCredit  = `(?s)^INSERT\s+INTO\s+accounts\s+\(address,\s*balance\)\s+VALUES\s+\(\$1,\s*\$2::numeric\)\s+ON\s+CONFLICT\s+\(address\)\s+DO\s+UPDATE.*$`
	qDebit   = `(?s)^UPDATE\s+accounts\s+SET\s+balance\s*=\s*balance\s*-\s*\$2::numeric\s+WHERE\s+address\s*=\s*\$1\s+AND\s+balance\s*>=\s*\$2::numeric$`
	qFees    = `(?s)^SELECT\s+collected::text\s+FROM\s+platform_fees\s+WHERE\s+id\s*=\s*1$`
	qAddFees = `(?s)^UPDATE\s+platform_fees\s+SET\s+collected\s*=\s*collected\s*\+\s*\$1::numeric\s+WHERE\s+id\s*=\s*1$`
)

var alice = common.HexToAddress("0x1000000000000000000000000000000000000001")

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestBalance(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qBalance).WithArgs(alice.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("989000000000000000"))

	b, err := repo.Balance(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "989000000000000000", b.String())
}

func TestBalance_UnknownAddressIsZero(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qBalance).WithArgs(alice.Hex()).WillReturnError(sql.ErrNoRows)

	b, err := repo.Balance(context.Background(), alice)
	require.NoError(t, err)
	assert.Zero(t, b.Sign())
}

func TestBalance_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qBalance).WithArgs(alice.Hex()).WillReturnError(errors.New("conn reset"))

	_, err := repo.Balance(context.Background(), alice)
	assert.ErrorContains(t, err, "conn reset")
}

func TestCredit(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(qCredit).WithArgs(alice.Hex(), "1000").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Credit(context.Background(), alice, big.NewInt(1000)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebit(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     error
	}{
		{name: "enough funds", affected: 1},
		{name: "insufficient funds", affected: 0, want: ledger.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(qDebit).WithArgs(alice.Hex(), "11000000000000000").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			amount, _ := new(big.Int).SetString("11000000000000000", 10)
			err := repo.Debit(context.Background(), alice, amount)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestFees(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(qAddFees).WithArgs("55000000000000").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(qFees).WillReturnRows(sqlmock.NewRows([]string{"collected"}).AddRow("55000000000000"))

	require.NoError(t, repo.AddFees(context.Background(), big.NewInt(55_000_000_000_000)))

	fees, err := repo.CollectedFees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "55000000000000", fees.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectedFees_BadValue(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qFees).WillReturnRows(sqlmock.NewRows([]string{"collected"}).AddRow("-1"))

	_, err := repo.CollectedFees(context.Background())
	assert.Error(t, err)
}
