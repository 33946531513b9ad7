package ledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/safesend/internal/ethx"
)

const bpsDenominator = 10_000

// ClaimPolicy decides who may submit a claim.
type ClaimPolicy string

const (
	// ClaimRecipientOnly requires the caller to be the stored recipient.
	ClaimRecipientOnly ClaimPolicy = "recipient-only"
	// ClaimPasswordOnly lets any caller holding the password trigger the
	// claim. The principal still goes to the stored recipient.
	ClaimPasswordOnly ClaimPolicy = "password-only"
)

type Params struct {
	NotificationAmount *big.Int
	MinDeposit         *big.Int
	PlatformFeeBps     uint64
	ClaimPolicy        ClaimPolicy
	FaucetAmount       *big.Int
	MaxExpiryMinutes   int64
}

func DefaultParams() Params {
	return Params{
		NotificationAmount: ethx.Ether(1, 3),
		MinDeposit:         ethx.Ether(1, 2),
		PlatformFeeBps:     50,
		ClaimPolicy:        ClaimRecipientOnly,
		FaucetAmount:       ethx.Ether(1, 0),
		MaxExpiryMinutes:   525_600,
	}
}

func (p Params) Validate() error {
	if p.NotificationAmount == nil || p.NotificationAmount.Sign() < 0 {
		return errors.New("notification amount must be non-negative")
	}
	if p.MinDeposit == nil || p.MinDeposit.Sign() < 0 {
		return errors.New("minimum deposit must be non-negative")
	}
	if p.FaucetAmount == nil || p.FaucetAmount.Sign() < 0 {
		return errors.New("faucet amount must be non-negative")
	}
	if p.PlatformFeeBps >= bpsDenominator {
		return fmt.Errorf("platform fee %d bps must be below %d", p.PlatformFeeBps, bpsDenominator)
	}
	if p.MaxExpiryMinutes <= 0 {
		return errors.New("max expiry minutes must be positive")
	}
	switch p.ClaimPolicy {
	case ClaimRecipientOnly, ClaimPasswordOnly:
	default:
		return fmt.Errorf("unknown claim policy %q", p.ClaimPolicy)
	}
	if _, _, principal := p.Split(p.Floor()); principal.Sign() <= 0 {
		return errors.New("minimum deposit leaves no principal after notification and fee")
	}
	return nil
}

// Floor is the smallest accepted deposit value.
func (p Params) Floor() *big.Int {
	return new(big.Int).Add(p.MinDeposit, p.NotificationAmount)
}

// Fee is value*bps/10000, rounded down.
func (p Params) Fee(value *big.Int) *big.Int {
	fee := new(big.Int).Mul(value, new(big.Int).SetUint64(p.PlatformFeeBps))
	return fee.Quo(fee, big.NewInt(bpsDenominator))
}

// Split divides value into the notification paid at creation, the platform
// fee and the escrowed principal. The three always sum to value.
func (p Params) Split(value *big.Int) (notification, fee, principal *big.Int) {
	notification = new(big.Int).Set(p.NotificationAmount)
	fee = p.Fee(value)
	principal = new(big.Int).Sub(value, notification)
	principal.Sub(principal, fee)
	return notification, fee, principal
}
