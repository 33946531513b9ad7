package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/safesend/internal/api"
	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.LedgerClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

// accessTokenInterceptor attaches the access token and, when the server
// reports it expired, rotates the pair and retries the call once.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	accessToken, refreshToken := s.tokens()
	if accessToken == "" {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refreshToken == "" || method == api.Ledger_RefreshToken_FullMethodName {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refreshToken})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewSafeSendClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewLedgerClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) GetChallenge(ctx context.Context, address ethcommon.Address) (string, string, error) {
	resp, err := s.client.GetChallenge(ctx, &api.GetChallengeRequest{Address: address.Hex()})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.Message, resp.ChallengeToken, nil
}

func (s *GRPCClient) Login(ctx context.Context, address ethcommon.Address, challengeToken string, signature []byte) error {
	resp, err := s.client.Login(ctx, &api.LoginRequest{
		Address:        address.Hex(),
		ChallengeToken: challengeToken,
		Signature:      hexutil.Encode(signature),
	})
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Logout forgets the session tokens.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) GetConstants(ctx context.Context) (*Constants, error) {
	resp, err := s.client.GetConstants(ctx, &api.GetConstantsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}

	c := &Constants{
		Params: ledger.Params{
			PlatformFeeBps:   resp.PlatformFeeBps,
			ClaimPolicy:      ledger.ClaimPolicy(resp.ClaimPolicy),
			MaxExpiryMinutes: resp.MaxExpiryMinutes,
		},
		LedgerAddress: ethcommon.HexToAddress(resp.LedgerAddress),
	}
	for _, f := range []struct {
		dst **big.Int
		v   string
	}{
		{&c.NotificationAmount, resp.NotificationAmount},
		{&c.MinDeposit, resp.MinDeposit},
		{&c.FaucetAmount, resp.FaucetAmount},
		{&c.CollectedFees, resp.CollectedFees},
	} {
		if *f.dst, err = ethx.ParseWei(f.v); err != nil {
			return nil, fmt.Errorf("constants: %w", err)
		}
	}
	return c, nil
}

func (s *GRPCClient) GetCurrentTime(ctx context.Context) (time.Time, error) {
	resp, err := s.client.GetCurrentTime(ctx, &api.GetCurrentTimeRequest{})
	if err != nil {
		return time.Time{}, s.mapError(err)
	}
	return time.Unix(resp.Timestamp, 0), nil
}

// GetDeposit returns the deposit as stored. An unknown id comes back as the
// zero deposit, as the ledger reports it.
func (s *GRPCClient) GetDeposit(ctx context.Context, id uint64) (*ledger.Deposit, error) {
	resp, err := s.client.GetDeposit(ctx, &api.GetDepositRequest{DepositID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Deposit.ToLedger()
}

func (s *GRPCClient) IsExpired(ctx context.Context, id uint64) (bool, error) {
	resp, err := s.client.IsExpired(ctx, &api.IsExpiredRequest{DepositID: id})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Expired, nil
}

func (s *GRPCClient) NextDepositID(ctx context.Context) (uint64, error) {
	resp, err := s.client.NextDepositId(ctx, &api.NextDepositIdRequest{})
	if err != nil {
		return 0, s.mapError(err)
	}
	return resp.NextDepositID, nil
}

func (s *GRPCClient) GetBalance(ctx context.Context, address ethcommon.Address) (*big.Int, error) {
	resp, err := s.client.GetBalance(ctx, &api.GetBalanceRequest{Address: address.Hex()})
	if err != nil {
		return nil, s.mapError(err)
	}
	return ethx.ParseWei(resp.Balance)
}

func (s *GRPCClient) ListDeposits(ctx context.Context, address ethcommon.Address) ([]api.IndexEntry, error) {
	resp, err := s.client.ListDeposits(ctx, &api.ListDepositsRequest{Address: address.Hex()})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Entries, nil
}

func (s *GRPCClient) SubmitCreateDeposit(ctx context.Context, recipient ethcommon.Address, commitment ethcommon.Hash, expiryMinutes int64, value *big.Int) (ethcommon.Hash, error) {
	return s.submitted(s.client.CreateDeposit(ctx, &api.CreateDepositRequest{
		Recipient:          recipient.Hex(),
		PasswordCommitment: commitment.Hex(),
		ExpiryMinutes:      expiryMinutes,
		Value:              ethx.WeiString(value),
	}))
}

func (s *GRPCClient) SubmitClaim(ctx context.Context, id uint64, password string) (ethcommon.Hash, error) {
	return s.submitted(s.client.Claim(ctx, &api.ClaimRequest{DepositID: id, Password: password}))
}

func (s *GRPCClient) SubmitCancel(ctx context.Context, id uint64) (ethcommon.Hash, error) {
	return s.submitted(s.client.Cancel(ctx, &api.CancelRequest{DepositID: id}))
}

func (s *GRPCClient) SubmitFund(ctx context.Context) (ethcommon.Hash, error) {
	return s.submitted(s.client.Fund(ctx, &api.FundRequest{}))
}

func (s *GRPCClient) submitted(resp *api.SubmitResponse, err error) (ethcommon.Hash, error) {
	if err != nil {
		return ethcommon.Hash{}, s.mapError(err)
	}
	return ethcommon.HexToHash(resp.TxHash), nil
}

// WaitReceipt blocks until the transaction finalizes or ctx ends. A revert
// is returned as a receipt, not an error.
func (s *GRPCClient) WaitReceipt(ctx context.Context, hash ethcommon.Hash) (*ledger.Receipt, error) {
	resp, err := s.client.GetReceipt(ctx, &api.GetReceiptRequest{TxHash: hash.Hex(), Wait: true})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Receipt == nil {
		return nil, fmt.Errorf("%w: no receipt for %s", ErrUnavailable, hash.Hex())
	}
	return resp.Receipt, nil
}

// mapError turns a gRPC status back into the sentinel the server started
// from. Known ledger errors travel as their message text.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	known := ledger.ErrorFromReason(st.Message())
	isKnown := known != nil && ledger.CategoryOf(known) != ledger.CategoryUnknown

	switch st.Code() {
	case codes.InvalidArgument:
		if isKnown {
			return known
		}
		if st.Message() == ethx.ErrInvalidAddress.Error() {
			return ethx.ErrInvalidAddress
		}
		return fmt.Errorf("invalid argument: %s", st.Message())
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.NotFound:
		if errors.Is(known, ledger.ErrDepositNotFound) {
			return ledger.ErrDepositNotFound
		}
		return common.ErrorNotFound
	case codes.ResourceExhausted:
		return ledger.ErrPoolFull
	case codes.Aborted:
		return fmt.Errorf("%w: %s", ledger.ErrTxDropped, strings.TrimPrefix(st.Message(), ledger.ErrTxDropped.Error()+": "))
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
