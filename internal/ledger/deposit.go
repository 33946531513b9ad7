package ledger

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type Deposit struct {
	ID                 uint64         `json:"id"`
	Depositor          common.Address `json:"depositor"`
	Recipient          common.Address `json:"recipient"`
	PasswordCommitment common.Hash    `json:"passwordCommitment"`
	Principal          *big.Int       `json:"principal"`
	ExpiryTime         int64          `json:"expiryTime"`
	CreatedAt          int64          `json:"createdAt"`
	Claimed            bool           `json:"claimed"`
	Cancelled          bool           `json:"cancelled"`
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusClaimed   Status = "claimed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (d *Deposit) Resolved() bool {
	return d.Claimed || d.Cancelled
}

// Expired reports now >= ExpiryTime.
func (d *Deposit) Expired(now time.Time) bool {
	return now.Unix() >= d.ExpiryTime
}

func (d *Deposit) Status(now time.Time) Status {
	switch {
	case d.Claimed:
		return StatusClaimed
	case d.Cancelled:
		return StatusCancelled
	case d.Expired(now):
		return StatusExpired
	default:
		return StatusPending
	}
}
