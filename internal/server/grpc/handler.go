package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/safesend/internal/api"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/server/txpool"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) GetChallenge(ctx context.Context, req *api.GetChallengeRequest) (*api.GetChallengeResponse, error) {
	ch, err := s.sessions.Challenge(ctx, req.Address)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetChallengeResponse{Message: ch.Message, ChallengeToken: ch.Token}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	tokens, err := s.sessions.Login(ctx, req.Address, req.ChallengeToken, req.Signature)
	if err != nil {
		s.logger.Warn(ctx, "login rejected", "address", req.Address, "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "wallet signed in", "address", req.Address)
	return &api.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	tokens, err := s.sessions.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) GetConstants(ctx context.Context, req *api.GetConstantsRequest) (*api.GetConstantsResponse, error) {
	fees, err := s.ledger.CollectedFees(ctx)
	if err != nil {
		s.logger.Error(ctx, "collected fees", "error", err)
		return nil, toStatus(err)
	}

	p := s.ledger.Params()
	return &api.GetConstantsResponse{
		NotificationAmount: ethx.WeiString(p.NotificationAmount),
		MinDeposit:         ethx.WeiString(p.MinDeposit),
		PlatformFeeBps:     p.PlatformFeeBps,
		CollectedFees:      ethx.WeiString(fees),
		ClaimPolicy:        string(p.ClaimPolicy),
		FaucetAmount:       ethx.WeiString(p.FaucetAmount),
		MaxExpiryMinutes:   p.MaxExpiryMinutes,
		LedgerAddress:      s.ledger.LedgerAddress().Hex(),
	}, nil
}

func (s *GRPCServer) GetCurrentTime(ctx context.Context, req *api.GetCurrentTimeRequest) (*api.GetCurrentTimeResponse, error) {
	return &api.GetCurrentTimeResponse{Timestamp: s.ledger.CurrentTime().Unix()}, nil
}

func (s *GRPCServer) CreateDeposit(ctx context.Context, req *api.CreateDepositRequest) (*api.SubmitResponse, error) {
	recipient, err := ethx.ParseAddress(req.Recipient)
	if err != nil {
		return nil, toStatus(ledger.ErrInvalidRecipient)
	}
	commitment, err := parseHash(req.PasswordCommitment)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid password commitment")
	}
	value, err := ethx.ParseWei(req.Value)
	if err != nil {
		return nil, toStatus(ledger.ErrInvalidAmount)
	}

	return s.submit(ctx, func(from common.Address) *ledger.Transaction {
		return ledger.NewCreate(from, recipient, commitment, req.ExpiryMinutes, value)
	})
}

func (s *GRPCServer) Claim(ctx context.Context, req *api.ClaimRequest) (*api.SubmitResponse, error) {
	return s.submit(ctx, func(from common.Address) *ledger.Transaction {
		return ledger.NewClaim(from, req.DepositID, req.Password)
	})
}

func (s *GRPCServer) Cancel(ctx context.Context, req *api.CancelRequest) (*api.SubmitResponse, error) {
	return s.submit(ctx, func(from common.Address) *ledger.Transaction {
		return ledger.NewCancel(from, req.DepositID)
	})
}

func (s *GRPCServer) Fund(ctx context.Context, req *api.FundRequest) (*api.SubmitResponse, error) {
	return s.submit(ctx, ledger.NewFund)
}

func (s *GRPCServer) submit(ctx context.Context, build func(from common.Address) *ledger.Transaction) (*api.SubmitResponse, error) {
	from, ok := CallerFromContext(ctx)
	if !ok {
		return nil, toStatus(ledger.ErrUnauthenticated)
	}

	tx := build(from)
	hash, err := s.pool.Submit(ctx, tx)
	if err != nil {
		s.logger.Warn(ctx, "submission rejected", "kind", tx.Kind, "from", from.Hex(), "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "transaction submitted", "kind", tx.Kind, "from", from.Hex(), "tx", hash.Hex())
	return &api.SubmitResponse{TxHash: hash.Hex()}, nil
}

// GetReceipt returns an empty response while the transaction is pending,
// unless the caller asked to wait for it.
func (s *GRPCServer) GetReceipt(ctx context.Context, req *api.GetReceiptRequest) (*api.GetReceiptResponse, error) {
	hash, err := parseHash(req.TxHash)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid transaction hash")
	}

	var rc *ledger.Receipt
	if req.Wait {
		rc, err = s.pool.Wait(ctx, hash)
	} else {
		rc, err = s.pool.Lookup(ctx, hash)
	}
	if errors.Is(err, txpool.ErrPending) {
		return &api.GetReceiptResponse{}, nil
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetReceiptResponse{Receipt: rc}, nil
}

// GetDeposit answers an unknown id with the zero deposit rather than an
// error; callers test the depositor address.
func (s *GRPCServer) GetDeposit(ctx context.Context, req *api.GetDepositRequest) (*api.GetDepositResponse, error) {
	d, err := s.ledger.GetDeposit(ctx, req.DepositID)
	if errors.Is(err, ledger.ErrDepositNotFound) {
		return &api.GetDepositResponse{Deposit: api.DepositToWire(nil)}, nil
	}
	if err != nil {
		s.logger.Error(ctx, "get deposit", "id", req.DepositID, "error", err)
		return nil, toStatus(err)
	}
	return &api.GetDepositResponse{Deposit: api.DepositToWire(d)}, nil
}

func (s *GRPCServer) IsExpired(ctx context.Context, req *api.IsExpiredRequest) (*api.IsExpiredResponse, error) {
	expired, err := s.ledger.IsExpired(ctx, req.DepositID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.IsExpiredResponse{Expired: expired}, nil
}

func (s *GRPCServer) NextDepositId(ctx context.Context, req *api.NextDepositIdRequest) (*api.NextDepositIdResponse, error) {
	next, err := s.ledger.NextDepositID(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.NextDepositIdResponse{NextDepositID: next}, nil
}

func (s *GRPCServer) GetBalance(ctx context.Context, req *api.GetBalanceRequest) (*api.GetBalanceResponse, error) {
	addr, err := ethx.ParseAddress(req.Address)
	if err != nil {
		return nil, toStatus(err)
	}
	bal, err := s.ledger.Balance(ctx, addr)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetBalanceResponse{Balance: ethx.WeiString(bal)}, nil
}

func (s *GRPCServer) ListDeposits(ctx context.Context, req *api.ListDepositsRequest) (*api.ListDepositsResponse, error) {
	if s.index == nil {
		return s.UnimplementedLedgerServer.ListDeposits(ctx, req)
	}
	addr, err := ethx.ParseAddress(req.Address)
	if err != nil {
		return nil, toStatus(err)
	}

	entries := s.index.ListDeposits(addr)
	out := make([]api.IndexEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.IndexEntry{DepositID: e.DepositID, Role: string(e.Role)})
	}
	return &api.ListDepositsResponse{Entries: out}, nil
}

func parseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) != common.HashLength {
		return common.Hash{}, errors.New("hash must be 32 bytes")
	}
	return common.BytesToHash(b), nil
}
