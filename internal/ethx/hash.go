package ethx

import (
	"crypto/subtle"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes the concatenation of data with legacy Keccak-256.
func Keccak256(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}

// PasswordCommitment is keccak256 of the UTF-8 bytes of password.
func PasswordCommitment(password string) common.Hash {
	return Keccak256([]byte(password))
}

// CommitmentMatches reports whether password hashes to commitment. The
// comparison runs in constant time.
func CommitmentMatches(commitment common.Hash, password string) bool {
	got := PasswordCommitment(password)
	return subtle.ConstantTimeCompare(got[:], commitment[:]) == 1
}
