package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/dbx"
	"github.com/dmitrijs2005/safesend/internal/ethx"
	"github.com/dmitrijs2005/safesend/internal/server/auth"
	"github.com/dmitrijs2005/safesend/internal/server/config"
	"github.com/dmitrijs2005/safesend/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Challenge is what a wallet must sign to log in. Token binds the nonce in
// Message to the address without server-side state.
type Challenge struct {
	Message string
	Token   string
}

// SessionService signs wallets in:
// - Challenge: issue a message to sign
// - Login: recover the signer and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	challengeValidityDuration    time.Duration
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		challengeValidityDuration:    cfg.ChallengeValidityDuration,
	}
}

func (s *SessionService) Challenge(ctx context.Context, address string) (*Challenge, error) {
	addr, err := ethx.ParseAddress(address)
	if err != nil {
		return nil, err
	}

	nonce, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, common.ErrorInternal
	}
	token, err := auth.GenerateChallengeToken(addr.Hex(), nonce, s.jwtSecret, s.challengeValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &Challenge{Message: auth.ChallengeMessage(addr.Hex(), nonce), Token: token}, nil
}

// Login checks that signature over the challenge message was produced by
// address. Any mismatch is reported as common.ErrorUnauthorized.
func (s *SessionService) Login(ctx context.Context, address, challengeToken, signature string) (*TokenPair, error) {
	addr, err := ethx.ParseAddress(address)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	claims, err := auth.ParseChallengeToken(challengeToken, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if !ethx.SameAddress(claims.Address, addr.Hex()) {
		return nil, common.ErrorUnauthorized
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	signer, err := auth.RecoverSigner(auth.ChallengeMessage(claims.Address, claims.Nonce), sig)
	if err != nil || signer != addr {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, addr.Hex(), s.db)
}

// RefreshToken consumes a refresh token and returns a fresh TokenPair.
// Expired tokens are still consumed and yield ErrRefreshTokenExpired.
func (s *SessionService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var expired bool

	pair, err := dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorUnauthorized
			}
			return nil, fmt.Errorf("error consuming refresh token: %w", err)
		}
		if token.Expires.Before(time.Now()) {
			expired = true
			return nil, nil
		}
		return s.generateTokenPair(ctx, token.Address, tx)
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, common.ErrRefreshTokenExpired
	}
	return pair, nil
}

// PurgeExpiredTokens deletes refresh tokens that can no longer be redeemed.
func (s *SessionService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).PurgeExpired(ctx, time.Now())
}

func (s *SessionService) generateTokenPair(ctx context.Context, address string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(address, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, address, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
