package client

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/safesend/internal/client/wallet"
	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoWallet     = errors.New("wallet not connected")

	// ErrReceiptPending means the server accepted a transaction but its
	// receipt did not arrive in time. The transaction may still finalize.
	ErrReceiptPending = errors.New("transaction submitted, confirmation pending")
)

// Code is a user-facing error class.
type Code string

const (
	CodeWalletNotConnected    Code = "WALLET_NOT_CONNECTED"
	CodeInsufficientFunds     Code = "INSUFFICIENT_FUNDS"
	CodeInvalidAddress        Code = "INVALID_ADDRESS"
	CodeInvalidPassword       Code = "INVALID_PASSWORD"
	CodeDepositNotFound       Code = "DEPOSIT_NOT_FOUND"
	CodeDepositExpired        Code = "DEPOSIT_EXPIRED"
	CodeDepositAlreadyClaimed Code = "DEPOSIT_ALREADY_CLAIMED"
	CodeDepositCancelled      Code = "DEPOSIT_CANCELLED"
	CodeTransactionRejected   Code = "TRANSACTION_REJECTED"
	CodeTransactionPending    Code = "TRANSACTION_PENDING"
	CodeNetworkError          Code = "NETWORK_ERROR"
	CodeContractError         Code = "CONTRACT_ERROR"
	CodeUnknownError          Code = "UNKNOWN_ERROR"
)

var classes = []struct {
	code Code
	errs []error
}{
	{CodeTransactionPending, []error{ErrReceiptPending}},
	{CodeWalletNotConnected, []error{ErrNoWallet, ErrUnauthorized, ledger.ErrUnauthenticated, wallet.ErrNoKeystore}},
	{CodeTransactionRejected, []error{ledger.ErrUserAborted}},
	{CodeInsufficientFunds, []error{ledger.ErrInsufficientFunds}},
	{CodeInvalidAddress, []error{ledger.ErrInvalidRecipient, ethx.ErrInvalidAddress, ethx.ErrZeroAddress}},
	{CodeInvalidPassword, []error{ledger.ErrWrongPassword, ledger.ErrEmptyPassword}},
	{CodeDepositNotFound, []error{ledger.ErrDepositNotFound}},
	{CodeDepositExpired, []error{ledger.ErrDepositExpired}},
	{CodeDepositAlreadyClaimed, []error{ledger.ErrAlreadyClaimed}},
	{CodeDepositCancelled, []error{ledger.ErrAlreadyCancelled}},
	{CodeNetworkError, []error{ErrUnavailable, ledger.ErrUnavailable, ledger.ErrTxDropped, ledger.ErrPoolFull, context.DeadlineExceeded}},
}

// Classify maps err to its user-facing code. Ledger errors without a more
// specific class report CONTRACT_ERROR.
func Classify(err error) Code {
	if err == nil {
		return ""
	}
	for _, c := range classes {
		for _, e := range c.errs {
			if errors.Is(err, e) {
				return c.code
			}
		}
	}
	switch ledger.CategoryOf(err) {
	case ledger.CategoryValidation, ledger.CategoryAuthorization, ledger.CategoryStateConflict:
		return CodeContractError
	}
	if errors.Is(err, common.ErrorNotFound) {
		return CodeDepositNotFound
	}
	return CodeUnknownError
}

var remedies = map[Code]string{
	CodeWalletNotConnected:    "Create or import a wallet and log in to continue.",
	CodeInsufficientFunds:     "Use 'faucet' to fund your wallet or reduce the amount.",
	CodeInvalidAddress:        "Ensure the address starts with 0x and is 42 characters long.",
	CodeInvalidPassword:       "Double-check the password with the sender.",
	CodeDepositNotFound:       "Verify the deposit ID with the sender.",
	CodeDepositExpired:        "Contact the sender to create a new deposit.",
	CodeDepositAlreadyClaimed: "This deposit cannot be claimed again.",
	CodeDepositCancelled:      "This deposit is no longer available.",
	CodeTransactionRejected:   "Confirm the transaction to continue.",
	CodeTransactionPending:    "Do not submit it again. Check the transaction hash above with 'show <id>' or 'history' in a moment.",
	CodeNetworkError:          "Check your connection to the ledger server and try again.",
	CodeContractError:         "Verify all inputs are correct and try again.",
	CodeUnknownError:          "Please try again or contact support if the issue persists.",
}

// Remedy returns the hint shown to the user for code.
func Remedy(code Code) string {
	if r, ok := remedies[code]; ok {
		return r
	}
	return remedies[CodeUnknownError]
}
