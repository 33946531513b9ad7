package api

import (
	"context"

	"google.golang.org/grpc"
)

// LedgerClient is the client API for the Ledger service.
type LedgerClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	GetChallenge(ctx context.Context, in *GetChallengeRequest, opts ...grpc.CallOption) (*GetChallengeResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	GetConstants(ctx context.Context, in *GetConstantsRequest, opts ...grpc.CallOption) (*GetConstantsResponse, error)
	GetCurrentTime(ctx context.Context, in *GetCurrentTimeRequest, opts ...grpc.CallOption) (*GetCurrentTimeResponse, error)
	CreateDeposit(ctx context.Context, in *CreateDepositRequest, opts ...grpc.CallOption) (*SubmitResponse, error)
	Claim(ctx context.Context, in *ClaimRequest, opts ...grpc.CallOption) (*SubmitResponse, error)
	Cancel(ctx context.Context, in *CancelRequest, opts ...grpc.CallOption) (*SubmitResponse, error)
	Fund(ctx context.Context, in *FundRequest, opts ...grpc.CallOption) (*SubmitResponse, error)
	GetReceipt(ctx context.Context, in *GetReceiptRequest, opts ...grpc.CallOption) (*GetReceiptResponse, error)
	GetDeposit(ctx context.Context, in *GetDepositRequest, opts ...grpc.CallOption) (*GetDepositResponse, error)
	IsExpired(ctx context.Context, in *IsExpiredRequest, opts ...grpc.CallOption) (*IsExpiredResponse, error)
	NextDepositId(ctx context.Context, in *NextDepositIdRequest, opts ...grpc.CallOption) (*NextDepositIdResponse, error)
	GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error)
	ListDeposits(ctx context.Context, in *ListDepositsRequest, opts ...grpc.CallOption) (*ListDepositsResponse, error)
}

type ledgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) LedgerClient {
	return &ledgerClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ledgerClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, Ledger_Ping_FullMethodName, in, opts)
}

func (c *ledgerClient) GetChallenge(ctx context.Context, in *GetChallengeRequest, opts ...grpc.CallOption) (*GetChallengeResponse, error) {
	return invoke[GetChallengeResponse](ctx, c.cc, Ledger_GetChallenge_FullMethodName, in, opts)
}

func (c *ledgerClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, Ledger_Login_FullMethodName, in, opts)
}

func (c *ledgerClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, Ledger_RefreshToken_FullMethodName, in, opts)
}

func (c *ledgerClient) GetConstants(ctx context.Context, in *GetConstantsRequest, opts ...grpc.CallOption) (*GetConstantsResponse, error) {
	return invoke[GetConstantsResponse](ctx, c.cc, Ledger_GetConstants_FullMethodName, in, opts)
}

func (c *ledgerClient) GetCurrentTime(ctx context.Context, in *GetCurrentTimeRequest, opts ...grpc.CallOption) (*GetCurrentTimeResponse, error) {
	return invoke[GetCurrentTimeResponse](ctx, c.cc, Ledger_GetCurrentTime_FullMethodName, in, opts)
}

func (c *ledgerClient) CreateDeposit(ctx context.Context, in *CreateDepositRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	return invoke[SubmitResponse](ctx, c.cc, Ledger_CreateDeposit_FullMethodName, in, opts)
}

func (c *ledgerClient) Claim(ctx context.Context, in *ClaimRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	return invoke[SubmitResponse](ctx, c.cc, Ledger_Claim_FullMethodName, in, opts)
}

func (c *ledgerClient) Cancel(ctx context.Context, in *CancelRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	return invoke[SubmitResponse](ctx, c.cc, Ledger_Cancel_FullMethodName, in, opts)
}

func (c *ledgerClient) Fund(ctx context.Context, in *FundRequest, opts ...grpc.CallOption) (*SubmitResponse, error) {
	return invoke[SubmitResponse](ctx, c.cc, Ledger_Fund_FullMethodName, in, opts)
}

func (c *ledgerClient) GetReceipt(ctx context.Context, in *GetReceiptRequest, opts ...grpc.CallOption) (*GetReceiptResponse, error) {
	return invoke[GetReceiptResponse](ctx, c.cc, Ledger_GetReceipt_FullMethodName, in, opts)
}

func (c *ledgerClient) GetDeposit(ctx context.Context, in *GetDepositRequest, opts ...grpc.CallOption) (*GetDepositResponse, error) {
	return invoke[GetDepositResponse](ctx, c.cc, Ledger_GetDeposit_FullMethodName, in, opts)
}

func (c *ledgerClient) IsExpired(ctx context.Context, in *IsExpiredRequest, opts ...grpc.CallOption) (*IsExpiredResponse, error) {
	return invoke[IsExpiredResponse](ctx, c.cc, Ledger_IsExpired_FullMethodName, in, opts)
}

func (c *ledgerClient) NextDepositId(ctx context.Context, in *NextDepositIdRequest, opts ...grpc.CallOption) (*NextDepositIdResponse, error) {
	return invoke[NextDepositIdResponse](ctx, c.cc, Ledger_NextDepositId_FullMethodName, in, opts)
}

func (c *ledgerClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	return invoke[GetBalanceResponse](ctx, c.cc, Ledger_GetBalance_FullMethodName, in, opts)
}

func (c *ledgerClient) ListDeposits(ctx context.Context, in *ListDepositsRequest, opts ...grpc.CallOption) (*ListDepositsResponse, error) {
	return invoke[ListDepositsResponse](ctx, c.cc, Ledger_ListDeposits_FullMethodName, in, opts)
}
