package ledger

import (
	"errors"
)

type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryAuthorization Category = "authorization"
	CategoryStateConflict Category = "state-conflict"
	CategoryTransport     Category = "transport"
	CategoryUserAbort     Category = "user-abort"
	CategoryUnknown       Category = "unknown"
)

// validation
var (
	ErrInvalidRecipient  = errors.New("invalid recipient")
	ErrInvalidExpiry     = errors.New("invalid expiry")
	ErrValueBelowMinimum = errors.New("value below minimum deposit")
	ErrEmptyPassword     = errors.New("empty password")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidKind       = errors.New("invalid transaction kind")
)

// authorization
var (
	ErrNotDepositor    = errors.New("caller is not the depositor")
	ErrNotRecipient    = errors.New("caller is not the recipient")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// state conflict
var (
	ErrDepositNotFound   = errors.New("deposit not found")
	ErrAlreadyClaimed    = errors.New("deposit already claimed")
	ErrAlreadyCancelled  = errors.New("deposit already cancelled")
	ErrDepositExpired    = errors.New("deposit expired")
	ErrWrongPassword     = errors.New("wrong password")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrFaucetDisabled    = errors.New("faucet disabled")
	ErrFaucetLimit       = errors.New("balance already at faucet amount")
)

// transport
var (
	ErrUnavailable = errors.New("ledger unavailable")
	ErrTxDropped   = errors.New("transaction dropped")
	ErrPoolFull    = errors.New("pending pool full")
)

// user abort
var ErrUserAborted = errors.New("aborted by user")

var categories = map[error]Category{
	ErrInvalidRecipient:  CategoryValidation,
	ErrInvalidExpiry:     CategoryValidation,
	ErrValueBelowMinimum: CategoryValidation,
	ErrEmptyPassword:     CategoryValidation,
	ErrInvalidAmount:     CategoryValidation,
	ErrInvalidKind:       CategoryValidation,

	ErrNotDepositor:    CategoryAuthorization,
	ErrNotRecipient:    CategoryAuthorization,
	ErrUnauthenticated: CategoryAuthorization,

	ErrDepositNotFound:   CategoryStateConflict,
	ErrAlreadyClaimed:    CategoryStateConflict,
	ErrAlreadyCancelled:  CategoryStateConflict,
	ErrDepositExpired:    CategoryStateConflict,
	ErrWrongPassword:     CategoryStateConflict,
	ErrInsufficientFunds: CategoryStateConflict,
	ErrFaucetDisabled:    CategoryStateConflict,
	ErrFaucetLimit:       CategoryStateConflict,

	ErrUnavailable: CategoryTransport,
	ErrTxDropped:   CategoryTransport,
	ErrPoolFull:    CategoryTransport,

	ErrUserAborted: CategoryUserAbort,
}

// CategoryOf classifies err by the first known sentinel in its chain.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	for sentinel, c := range categories {
		if errors.Is(err, sentinel) {
			return c
		}
	}
	return CategoryUnknown
}

// Retryable reports whether the user may retry the same call with different
// input. Only a wrong password qualifies.
func Retryable(err error) bool {
	return errors.Is(err, ErrWrongPassword)
}

// ErrorFromReason maps a receipt's Reason back to its sentinel. Unknown
// reasons yield a plain error carrying the text.
func ErrorFromReason(reason string) error {
	if reason == "" {
		return nil
	}
	for sentinel := range categories {
		if sentinel.Error() == reason {
			return sentinel
		}
	}
	return errors.New(reason)
}
