package api

import (
	"fmt"

	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type GetChallengeRequest struct {
	Address string `json:"address"`
}

type GetChallengeResponse struct {
	Message        string `json:"message"`
	ChallengeToken string `json:"challengeToken"`
}

type LoginRequest struct {
	Address        string `json:"address"`
	ChallengeToken string `json:"challengeToken"`
	// Signature is the 65-byte personal-sign signature, hex encoded.
	Signature string `json:"signature"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type GetConstantsRequest struct{}

type GetConstantsResponse struct {
	NotificationAmount string `json:"notificationAmount"`
	MinDeposit         string `json:"minDeposit"`
	PlatformFeeBps     uint64 `json:"platformFeeBps"`
	CollectedFees      string `json:"collectedFees"`
	ClaimPolicy        string `json:"claimPolicy"`
	FaucetAmount       string `json:"faucetAmount"`
	MaxExpiryMinutes   int64  `json:"maxExpiryMinutes"`
	LedgerAddress      string `json:"ledgerAddress"`
}

type GetCurrentTimeRequest struct{}

type GetCurrentTimeResponse struct {
	Timestamp int64 `json:"timestamp"`
}

type CreateDepositRequest struct {
	Recipient          string `json:"recipient"`
	PasswordCommitment string `json:"passwordCommitment"`
	ExpiryMinutes      int64  `json:"expiryMinutes"`
	Value              string `json:"value"`
}

type ClaimRequest struct {
	DepositID uint64 `json:"depositId"`
	Password  string `json:"password"`
}

type CancelRequest struct {
	DepositID uint64 `json:"depositId"`
}

type FundRequest struct{}

// SubmitResponse acknowledges acceptance into the pending pool.
type SubmitResponse struct {
	TxHash string `json:"txHash"`
}

type GetReceiptRequest struct {
	TxHash string `json:"txHash"`
	// Wait blocks until the transaction finalizes or the call deadline passes.
	Wait bool `json:"wait"`
}

type GetReceiptResponse struct {
	Receipt *ledger.Receipt `json:"receipt"`
}

type GetDepositRequest struct {
	DepositID uint64 `json:"depositId"`
}

type GetDepositResponse struct {
	Deposit Deposit `json:"deposit"`
}

type IsExpiredRequest struct {
	DepositID uint64 `json:"depositId"`
}

type IsExpiredResponse struct {
	Expired bool `json:"expired"`
}

type NextDepositIdRequest struct{}

type NextDepositIdResponse struct {
	NextDepositID uint64 `json:"nextDepositId"`
}

type GetBalanceRequest struct {
	Address string `json:"address"`
}

type GetBalanceResponse struct {
	Balance string `json:"balance"`
}

type ListDepositsRequest struct {
	Address string `json:"address"`
}

type IndexEntry struct {
	DepositID uint64 `json:"depositId"`
	Role      string `json:"role"`
}

type ListDepositsResponse struct {
	Entries []IndexEntry `json:"entries"`
}

// Deposit is the wire form of ledger.Deposit. A missing deposit is sent as
// the zero value, i.e. with the zero depositor address.
type Deposit struct {
	ID                 uint64 `json:"id"`
	Depositor          string `json:"depositor"`
	Recipient          string `json:"recipient"`
	PasswordCommitment string `json:"passwordCommitment"`
	Principal          string `json:"principal"`
	ExpiryTime         int64  `json:"expiryTime"`
	CreatedAt          int64  `json:"createdAt"`
	Claimed            bool   `json:"claimed"`
	Cancelled          bool   `json:"cancelled"`
}

func DepositToWire(d *ledger.Deposit) Deposit {
	if d == nil {
		return Deposit{
			Depositor:          common.Address{}.Hex(),
			Recipient:          common.Address{}.Hex(),
			PasswordCommitment: common.Hash{}.Hex(),
			Principal:          "0",
		}
	}
	return Deposit{
		ID:                 d.ID,
		Depositor:          d.Depositor.Hex(),
		Recipient:          d.Recipient.Hex(),
		PasswordCommitment: d.PasswordCommitment.Hex(),
		Principal:          ethx.WeiString(d.Principal),
		ExpiryTime:         d.ExpiryTime,
		CreatedAt:          d.CreatedAt,
		Claimed:            d.Claimed,
		Cancelled:          d.Cancelled,
	}
}

func (d Deposit) ToLedger() (*ledger.Deposit, error) {
	principal, err := ethx.ParseWei(d.Principal)
	if err != nil {
		return nil, fmt.Errorf("deposit %d principal: %w", d.ID, err)
	}
	return &ledger.Deposit{
		ID:                 d.ID,
		Depositor:          common.HexToAddress(d.Depositor),
		Recipient:          common.HexToAddress(d.Recipient),
		PasswordCommitment: common.HexToHash(d.PasswordCommitment),
		Principal:          principal,
		ExpiryTime:         d.ExpiryTime,
		CreatedAt:          d.CreatedAt,
		Claimed:            d.Claimed,
		Cancelled:          d.Cancelled,
	}, nil
}
