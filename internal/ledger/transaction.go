package ledger

import (
	"encoding/binary"
	"math/big"
	"time"

	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

type Kind string

const (
	KindCreate Kind = "create"
	KindClaim  Kind = "claim"
	KindCancel Kind = "cancel"
	KindFund   Kind = "fund"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCreate, KindClaim, KindCancel, KindFund:
		return true
	}
	return false
}

// Transaction is a mutating call waiting to be applied. Only the fields
// relevant to Kind are meaningful.
type Transaction struct {
	Hash          common.Hash
	Kind          Kind
	From          common.Address
	Recipient     common.Address
	Commitment    common.Hash
	ExpiryMinutes int64
	Value         *big.Int
	DepositID     uint64
	Password      string
	Nonce         uuid.UUID
	SubmittedAt   time.Time
}

func NewCreate(from, recipient common.Address, commitment common.Hash, expiryMinutes int64, value *big.Int) *Transaction {
	return &Transaction{
		Kind:          KindCreate,
		From:          from,
		Recipient:     recipient,
		Commitment:    commitment,
		ExpiryMinutes: expiryMinutes,
		Value:         value,
	}
}

func NewClaim(from common.Address, id uint64, password string) *Transaction {
	return &Transaction{Kind: KindClaim, From: from, DepositID: id, Password: password}
}

func NewCancel(from common.Address, id uint64) *Transaction {
	return &Transaction{Kind: KindCancel, From: from, DepositID: id}
}

func NewFund(from common.Address) *Transaction {
	return &Transaction{Kind: KindFund, From: from}
}

// Seal stamps the transaction with a fresh nonce and submission time and
// computes its hash.
func (tx *Transaction) Seal(now time.Time) common.Hash {
	tx.Nonce = uuid.New()
	tx.SubmittedAt = now
	tx.Hash = tx.ComputeHash()
	return tx.Hash
}

// ComputeHash is keccak256 over a fixed-layout encoding of the call. The
// password enters only as its own keccak256.
func (tx *Transaction) ComputeHash() common.Hash {
	var u64 [8]byte

	buf := make([]byte, 0, 256)
	buf = append(buf, tx.Kind...)
	buf = append(buf, tx.From.Bytes()...)
	buf = append(buf, tx.Recipient.Bytes()...)
	buf = append(buf, tx.Commitment.Bytes()...)

	binary.BigEndian.PutUint64(u64[:], uint64(tx.ExpiryMinutes))
	buf = append(buf, u64[:]...)

	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}
	buf = append(buf, common.BigToHash(value).Bytes()...)

	binary.BigEndian.PutUint64(u64[:], tx.DepositID)
	buf = append(buf, u64[:]...)

	if tx.Password != "" {
		buf = append(buf, ethx.PasswordCommitment(tx.Password).Bytes()...)
	}
	buf = append(buf, tx.Nonce[:]...)

	return ethx.Keccak256(buf)
}

// Validate runs the checks that need no ledger state.
func (tx *Transaction) Validate(p Params) error {
	if ethx.IsZero(tx.From) {
		return ErrUnauthenticated
	}

	switch tx.Kind {
	case KindCreate:
		if ethx.IsZero(tx.Recipient) {
			return ErrInvalidRecipient
		}
		if tx.ExpiryMinutes <= 0 || tx.ExpiryMinutes > p.MaxExpiryMinutes {
			return ErrInvalidExpiry
		}
		if tx.Value == nil || tx.Value.Sign() <= 0 {
			return ErrInvalidAmount
		}
		if tx.Value.Cmp(p.Floor()) < 0 {
			return ErrValueBelowMinimum
		}
	case KindClaim:
		if tx.Password == "" {
			return ErrEmptyPassword
		}
	case KindCancel, KindFund:
	default:
		return ErrInvalidKind
	}

	return nil
}
