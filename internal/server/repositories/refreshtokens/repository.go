// Package refreshtokens stores the refresh tokens handed out after a wallet
// signs in. Only a keccak256 digest of each token is persisted.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/safesend/internal/server/models"
)

type Repository interface {
	// Create stores token for address, valid until now+validity.
	Create(ctx context.Context, address string, token string, validity time.Duration) error

	// Consume removes token and returns the row it held. A token can be
	// consumed once; later calls return common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// PurgeExpired drops every token that expired before now and reports how
	// many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
