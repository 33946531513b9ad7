// Package grpc exposes the ledger over gRPC: transaction submission, receipt
// retrieval, wallet sign-in and the deposit read surface.
package grpc

import (
	"context"
	"math/big"
	"net"
	"time"

	"github.com/dmitrijs2005/safesend/internal/api"
	"github.com/dmitrijs2005/safesend/internal/ledger"
	"github.com/dmitrijs2005/safesend/internal/logging"
	"github.com/dmitrijs2005/safesend/internal/server/indexer"
	"github.com/dmitrijs2005/safesend/internal/server/services"
	"github.com/ethereum/go-ethereum/common"
	"google.golang.org/grpc"
)

type LedgerReader interface {
	Params() ledger.Params
	LedgerAddress() common.Address
	CurrentTime() time.Time
	GetDeposit(ctx context.Context, id uint64) (*ledger.Deposit, error)
	NextDepositID(ctx context.Context) (uint64, error)
	IsExpired(ctx context.Context, id uint64) (bool, error)
	CollectedFees(ctx context.Context) (*big.Int, error)
	Balance(ctx context.Context, addr common.Address) (*big.Int, error)
}

type TxPool interface {
	Submit(ctx context.Context, tx *ledger.Transaction) (common.Hash, error)
	Wait(ctx context.Context, hash common.Hash) (*ledger.Receipt, error)
	Lookup(ctx context.Context, hash common.Hash) (*ledger.Receipt, error)
}

type Sessions interface {
	Challenge(ctx context.Context, address string) (*services.Challenge, error)
	Login(ctx context.Context, address, challengeToken, signature string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type DepositIndex interface {
	ListDeposits(addr common.Address) []indexer.Entry
}

type RequestObserver interface {
	ObserveRequest(method, code string, d time.Duration)
}

type GRPCServer struct {
	api.UnimplementedLedgerServer
	address   string
	ledger    LedgerReader
	pool      TxPool
	sessions  Sessions
	index     DepositIndex
	metrics   RequestObserver
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer wires the handlers. index and metrics may be nil.
func NewGRPCServer(a string, l logging.Logger, lr LedgerReader, p TxPool, ss Sessions, idx DepositIndex, m RequestObserver, secretKey string) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		ledger:    lr,
		pool:      p,
		sessions:  ss,
		index:     idx,
		metrics:   m,
		logger:    l.With("module", "grpc_server"),
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	api.RegisterLedgerServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
