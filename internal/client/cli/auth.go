package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/safesend/internal/client/client"
	"github.com/dmitrijs2005/safesend/internal/client/wallet"
	"github.com/dmitrijs2005/safesend/internal/common"
)

var (
	errEmptyPassphrase    = errors.New("passphrase must not be empty")
	errPassphraseMismatch = errors.New("passphrases do not match")
)

func (a *App) requireLogin() error {
	if !a.loggedIn {
		return client.ErrNoWallet
	}
	return nil
}

// readNewPassphrase asks for a keystore passphrase twice.
func (a *App) readNewPassphrase() ([]byte, error) {
	pass, err := getPassword("Choose a keystore passphrase", a.out)
	if err != nil {
		return nil, err
	}
	if len(pass) == 0 {
		return nil, errEmptyPassphrase
	}

	again, err := getPassword("Repeat the passphrase", a.out)
	if err != nil {
		common.WipeByteArray(pass)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if !bytes.Equal(pass, again) {
		common.WipeByteArray(pass)
		return nil, errPassphraseMismatch
	}
	return pass, nil
}

// signIn unlocks w for the session and authenticates with the server.
func (a *App) signIn(ctx context.Context, w *wallet.Wallet) error {
	a.wallet = w
	a.loggedIn = false
	a.safeSend.UseAccount(w.Address())

	if err := a.auth.Login(ctx, w); err != nil {
		a.logger.Warn(ctx, "login failed", "address", w.Address().Hex(), "error", err)
		return err
	}

	a.loggedIn = true
	a.logger.Info(ctx, "logged in", "address", w.Address().Hex())
	printlnFn("Logged in as", w.Address().Hex())
	return nil
}

func (a *App) saveAndSignIn(ctx context.Context, w *wallet.Wallet) error {
	pass, err := a.readNewPassphrase()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	if err := w.Save(a.config.KeystorePath, pass); err != nil {
		return fmt.Errorf("save keystore: %w", err)
	}
	printlnFn("Wallet saved to", a.config.KeystorePath)
	return a.signIn(ctx, w)
}

func (a *App) confirmReplaceKeystore() error {
	if !wallet.Exists(a.config.KeystorePath) {
		return nil
	}
	return Confirm(a.reader, fmt.Sprintf("A wallet already exists at %s. Replace it?", a.config.KeystorePath), a.out)
}

// NewWallet generates a key, stores it encrypted and signs in with it.
func (a *App) NewWallet(ctx context.Context) error {
	if err := a.confirmReplaceKeystore(); err != nil {
		return err
	}

	w, err := wallet.Generate()
	if err != nil {
		return err
	}
	printlnFn("New wallet address:", w.Address().Hex())
	return a.saveAndSignIn(ctx, w)
}

// ImportWallet stores an existing hex private key and signs in with it.
func (a *App) ImportWallet(ctx context.Context) error {
	if err := a.confirmReplaceKeystore(); err != nil {
		return err
	}

	key, err := getPassword("Private key (hex)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	w, err := wallet.Import(string(key))
	if err != nil {
		return err
	}
	printlnFn("Imported wallet address:", w.Address().Hex())
	return a.saveAndSignIn(ctx, w)
}

// Login unlocks the saved keystore and signs in.
func (a *App) Login(ctx context.Context) error {
	if !wallet.Exists(a.config.KeystorePath) {
		return wallet.ErrNoKeystore
	}

	pass, err := getPassword("Keystore passphrase", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	w, err := wallet.Open(a.config.KeystorePath, pass)
	if err != nil {
		return err
	}
	return a.signIn(ctx, w)
}

func (a *App) Address(context.Context) error {
	if a.wallet == nil {
		return client.ErrNoWallet
	}
	printlnFn(a.wallet.Address().Hex())
	return nil
}
