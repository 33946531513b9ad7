package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/safesend/internal/dbx"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/deposits"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/receipts"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/refreshtokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Deposits(db dbx.DBTX) deposits.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	Receipts(db dbx.DBTX) receipts.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
