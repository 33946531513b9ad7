package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "safesend.ledger.Ledger"

const (
	Ledger_Ping_FullMethodName           = "/safesend.ledger.Ledger/Ping"
	Ledger_GetChallenge_FullMethodName   = "/safesend.ledger.Ledger/GetChallenge"
	Ledger_Login_FullMethodName          = "/safesend.ledger.Ledger/Login"
	Ledger_RefreshToken_FullMethodName   = "/safesend.ledger.Ledger/RefreshToken"
	Ledger_GetConstants_FullMethodName   = "/safesend.ledger.Ledger/GetConstants"
	Ledger_GetCurrentTime_FullMethodName = "/safesend.ledger.Ledger/GetCurrentTime"
	Ledger_CreateDeposit_FullMethodName  = "/safesend.ledger.Ledger/CreateDeposit"
	Ledger_Claim_FullMethodName          = "/safesend.ledger.Ledger/Claim"
	Ledger_Cancel_FullMethodName         = "/safesend.ledger.Ledger/Cancel"
	Ledger_Fund_FullMethodName           = "/safesend.ledger.Ledger/Fund"
	Ledger_GetReceipt_FullMethodName     = "/safesend.ledger.Ledger/GetReceipt"
	Ledger_GetDeposit_FullMethodName     = "/safesend.ledger.Ledger/GetDeposit"
	Ledger_IsExpired_FullMethodName      = "/safesend.ledger.Ledger/IsExpired"
	Ledger_NextDepositId_FullMethodName  = "/safesend.ledger.Ledger/NextDepositId"
	Ledger_GetBalance_FullMethodName     = "/safesend.ledger.Ledger/GetBalance"
	Ledger_ListDeposits_FullMethodName   = "/safesend.ledger.Ledger/ListDeposits"
)

// LedgerServer is the server API for the Ledger service.
type LedgerServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	GetChallenge(context.Context, *GetChallengeRequest) (*GetChallengeResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	GetConstants(context.Context, *GetConstantsRequest) (*GetConstantsResponse, error)
	GetCurrentTime(context.Context, *GetCurrentTimeRequest) (*GetCurrentTimeResponse, error)
	CreateDeposit(context.Context, *CreateDepositRequest) (*SubmitResponse, error)
	Claim(context.Context, *ClaimRequest) (*SubmitResponse, error)
	Cancel(context.Context, *CancelRequest) (*SubmitResponse, error)
	Fund(context.Context, *FundRequest) (*SubmitResponse, error)
	GetReceipt(context.Context, *GetReceiptRequest) (*GetReceiptResponse, error)
	GetDeposit(context.Context, *GetDepositRequest) (*GetDepositResponse, error)
	IsExpired(context.Context, *IsExpiredRequest) (*IsExpiredResponse, error)
	NextDepositId(context.Context, *NextDepositIdRequest) (*NextDepositIdResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	ListDeposits(context.Context, *ListDepositsRequest) (*ListDepositsResponse, error)
}

// UnimplementedLedgerServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible.
type UnimplementedLedgerServer struct{}

func (UnimplementedLedgerServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedLedgerServer) GetChallenge(context.Context, *GetChallengeRequest) (*GetChallengeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetChallenge not implemented")
}
func (UnimplementedLedgerServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedLedgerServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedLedgerServer) GetConstants(context.Context, *GetConstantsRequest) (*GetConstantsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetConstants not implemented")
}
func (UnimplementedLedgerServer) GetCurrentTime(context.Context, *GetCurrentTimeRequest) (*GetCurrentTimeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCurrentTime not implemented")
}
func (UnimplementedLedgerServer) CreateDeposit(context.Context, *CreateDepositRequest) (*SubmitResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateDeposit not implemented")
}
func (UnimplementedLedgerServer) Claim(context.Context, *ClaimRequest) (*SubmitResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Claim not implemented")
}
func (UnimplementedLedgerServer) Cancel(context.Context, *CancelRequest) (*SubmitResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Cancel not implemented")
}
func (UnimplementedLedgerServer) Fund(context.Context, *FundRequest) (*SubmitResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Fund not implemented")
}
func (UnimplementedLedgerServer) GetReceipt(context.Context, *GetReceiptRequest) (*GetReceiptResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetReceipt not implemented")
}
func (UnimplementedLedgerServer) GetDeposit(context.Context, *GetDepositRequest) (*GetDepositResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDeposit not implemented")
}
func (UnimplementedLedgerServer) IsExpired(context.Context, *IsExpiredRequest) (*IsExpiredResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method IsExpired not implemented")
}
func (UnimplementedLedgerServer) NextDepositId(context.Context, *NextDepositIdRequest) (*NextDepositIdResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method NextDepositId not implemented")
}
func (UnimplementedLedgerServer) GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBalance not implemented")
}
func (UnimplementedLedgerServer) ListDeposits(context.Context, *ListDepositsRequest) (*ListDepositsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListDeposits not implemented")
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&Ledger_ServiceDesc, srv)
}

// unaryHandler adapts a typed LedgerServer method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(LedgerServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var Ledger_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(Ledger_Ping_FullMethodName, LedgerServer.Ping)},
		{MethodName: "GetChallenge", Handler: unaryHandler(Ledger_GetChallenge_FullMethodName, LedgerServer.GetChallenge)},
		{MethodName: "Login", Handler: unaryHandler(Ledger_Login_FullMethodName, LedgerServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(Ledger_RefreshToken_FullMethodName, LedgerServer.RefreshToken)},
		{MethodName: "GetConstants", Handler: unaryHandler(Ledger_GetConstants_FullMethodName, LedgerServer.GetConstants)},
		{MethodName: "GetCurrentTime", Handler: unaryHandler(Ledger_GetCurrentTime_FullMethodName, LedgerServer.GetCurrentTime)},
		{MethodName: "CreateDeposit", Handler: unaryHandler(Ledger_CreateDeposit_FullMethodName, LedgerServer.CreateDeposit)},
		{MethodName: "Claim", Handler: unaryHandler(Ledger_Claim_FullMethodName, LedgerServer.Claim)},
		{MethodName: "Cancel", Handler: unaryHandler(Ledger_Cancel_FullMethodName, LedgerServer.Cancel)},
		{MethodName: "Fund", Handler: unaryHandler(Ledger_Fund_FullMethodName, LedgerServer.Fund)},
		{MethodName: "GetReceipt", Handler: unaryHandler(Ledger_GetReceipt_FullMethodName, LedgerServer.GetReceipt)},
		{MethodName: "GetDeposit", Handler: unaryHandler(Ledger_GetDeposit_FullMethodName, LedgerServer.GetDeposit)},
		{MethodName: "IsExpired", Handler: unaryHandler(Ledger_IsExpired_FullMethodName, LedgerServer.IsExpired)},
		{MethodName: "NextDepositId", Handler: unaryHandler(Ledger_NextDepositId_FullMethodName, LedgerServer.NextDepositId)},
		{MethodName: "GetBalance", Handler: unaryHandler(Ledger_GetBalance_FullMethodName, LedgerServer.GetBalance)},
		{MethodName: "ListDeposits", Handler: unaryHandler(Ledger_ListDeposits_FullMethodName, LedgerServer.ListDeposits)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "safesend/ledger.json",
}
