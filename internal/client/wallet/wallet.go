// Package wallet holds the user's signing key. On disk the secp256k1 key is
// sealed with AES-GCM under an argon2id-derived key; in memory it signs the
// sign-in challenge as an EIP-191 personal message.
package wallet

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/dmitrijs2005/safesend/internal/cryptox"
	"github.com/dmitrijs2005/safesend/internal/filex"
	"github.com/ethereum/go-ethereum/accounts"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const keystoreVersion = 1

var (
	ErrNoKeystore      = errors.New("keystore not found")
	ErrWrongPassphrase = errors.New("wrong passphrase")
	ErrInvalidKey      = errors.New("invalid private key")
	ErrCorruptKeystore = errors.New("keystore is corrupt")
)

type keystoreFile struct {
	Version    int               `json:"version"`
	Address    ethcommon.Address `json:"address"`
	KDF        cryptox.KDFParams `json:"kdf"`
	Salt       hexutil.Bytes     `json:"salt"`
	Nonce      hexutil.Bytes     `json:"nonce"`
	Ciphertext hexutil.Bytes     `json:"ciphertext"`
}

type Wallet struct {
	key     *ecdsa.PrivateKey
	address ethcommon.Address
}

func newWallet(key *ecdsa.PrivateKey) *Wallet {
	return &Wallet{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// Generate creates a wallet with a fresh random key.
func Generate() (*Wallet, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return newWallet(key), nil
}

// Import accepts a hex private key, with or without the 0x prefix.
func Import(hexKey string) (*Wallet, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return newWallet(key), nil
}

func (w *Wallet) Address() ethcommon.Address {
	return w.address
}

// SignText signs msg as an EIP-191 personal message. V is 27 or 28.
func (w *Wallet) SignText(msg []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(msg), w.key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

// Save writes the key to path sealed under passphrase. The file is created
// with owner-only permissions.
func (w *Wallet) Save(path string, passphrase []byte) error {
	salt := cryptox.NewSalt()
	kdf := cryptox.DefaultKDF
	aesKey := cryptox.DeriveKey(passphrase, salt, kdf)
	defer common.WipeByteArray(aesKey)

	raw := crypto.FromECDSA(w.key)
	defer common.WipeByteArray(raw)

	ciphertext, nonce, err := cryptox.Seal(aesKey, raw)
	if err != nil {
		return fmt.Errorf("seal key: %w", err)
	}

	data, err := json.MarshalIndent(keystoreFile{
		Version:    keystoreVersion,
		Address:    w.address,
		KDF:        kdf,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, "", "  ")
	if err != nil {
		return err
	}

	if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Open reads and decrypts the keystore at path.
func Open(path string, passphrase []byte) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoKeystore
	}
	if err != nil {
		return nil, err
	}

	var ks keystoreFile
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptKeystore, err)
	}
	if ks.Version != keystoreVersion {
		return nil, fmt.Errorf("%w: version %d", ErrCorruptKeystore, ks.Version)
	}

	aesKey := cryptox.DeriveKey(passphrase, ks.Salt, ks.KDF)
	defer common.WipeByteArray(aesKey)

	raw, err := cryptox.Open(aesKey, ks.Nonce, ks.Ciphertext)
	if errors.Is(err, cryptox.ErrDecrypt) {
		return nil, ErrWrongPassphrase
	}
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(raw)

	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptKeystore, err)
	}

	w := newWallet(key)
	if w.address != ks.Address {
		return nil, fmt.Errorf("%w: address mismatch", ErrCorruptKeystore)
	}
	return w, nil
}

// Exists reports whether a keystore file is present at path.
func Exists(path string) bool {
	return filex.Exists(path)
}
