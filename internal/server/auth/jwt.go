// Package auth issues and verifies the HS256 tokens used by the ledger
// server, and recovers wallet addresses from personal-sign signatures.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/safesend/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const (
	purposeAccess    = "access"
	purposeChallenge = "challenge"
)

// Claims carries the wallet address the token was issued to. Purpose keeps
// challenge tokens from being accepted as access tokens and vice versa.
type Claims struct {
	jwt.RegisteredClaims
	Address string `json:"addr"`
	Purpose string `json:"pur"`
	Nonce   string `json:"nonce,omitempty"`
}

func sign(c Claims, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(validity))
	c.Subject = c.Address

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secretKey)
}

func parse(tokenString string, secretKey []byte, purpose string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, err
	}

	if !token.Valid || claims.Purpose != purpose || claims.Address == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GenerateToken issues an access token for address.
func GenerateToken(address string, secretKey []byte, validity time.Duration) (string, error) {
	return sign(Claims{Address: address, Purpose: purposeAccess}, secretKey, validity)
}

// GetAddressFromToken validates an access token and returns its address.
// Expired tokens yield common.ErrTokenExpired.
func GetAddressFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := parse(tokenString, secretKey, purposeAccess)
	if err != nil {
		return "", err
	}
	return claims.Address, nil
}

// GenerateChallengeToken binds a login nonce to address for a short time.
func GenerateChallengeToken(address, nonce string, secretKey []byte, validity time.Duration) (string, error) {
	return sign(Claims{Address: address, Purpose: purposeChallenge, Nonce: nonce}, secretKey, validity)
}

func ParseChallengeToken(tokenString string, secretKey []byte) (*Claims, error) {
	return parse(tokenString, secretKey, purposeChallenge)
}
