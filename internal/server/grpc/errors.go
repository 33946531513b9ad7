package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/server/txpool"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC statuses. Known sentinels keep their
// text as the status message so clients can recover them; anything else is
// reported as an opaque internal error.
func toStatus(err error) error {
	code := codes.Internal

	switch {
	case ledger.CategoryOf(err) == ledger.CategoryValidation,
		errors.Is(err, ethx.ErrInvalidAddress),
		errors.Is(err, ethx.ErrZeroAddress):
		code = codes.InvalidArgument
	case errors.Is(err, ledger.ErrUnauthenticated),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		code = codes.Unauthenticated
	case errors.Is(err, ledger.ErrDepositNotFound),
		errors.Is(err, common.ErrorNotFound),
		errors.Is(err, txpool.ErrUnknownTx):
		code = codes.NotFound
	case errors.Is(err, ledger.ErrPoolFull):
		code = codes.ResourceExhausted
	case errors.Is(err, txpool.ErrPoolClosed):
		code = codes.Unavailable
	case errors.Is(err, ledger.ErrTxDropped):
		code = codes.Aborted
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}

	if code == codes.Internal {
		return status.Error(code, common.ErrorInternal.Error())
	}
	return status.Error(code, err.Error())
}
