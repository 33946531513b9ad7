package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/safesend/internal/client/client"
	"github.com/ethereum/go-ethereum/common"
)

// Signer is what sign-in needs from a wallet.
type Signer interface {
	Address() common.Address
	SignText(msg []byte) ([]byte, error)
}

// AuthService signs the user in with their wallet key.
//
// Login asks the server for a challenge, signs it as a personal message and
// exchanges the signature for a session. Logout drops the session locally.
type AuthService interface {
	Login(ctx context.Context, signer Signer) error
	Logout()
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
}

func NewAuthService(client client.Client) AuthService {
	return &authService{client: client}
}

func (a *authService) Login(ctx context.Context, signer Signer) error {
	if signer == nil {
		return client.ErrNoWallet
	}
	address := signer.Address()

	message, challengeToken, err := a.client.GetChallenge(ctx, address)
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}

	signature, err := signer.SignText([]byte(message))
	if err != nil {
		return fmt.Errorf("sign challenge: %w", err)
	}

	if err := a.client.Login(ctx, address, challengeToken, signature); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

func (a *authService) Logout() {
	a.client.Logout()
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
