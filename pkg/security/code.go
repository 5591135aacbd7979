package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeIssuer generates the 6-digit codes mailed to users for email
// verification and password resets, together with their hashes.
type CodeIssuer struct {
	hasher *ArgonHash
}

func NewCodeIssuer(hasher *ArgonHash) *CodeIssuer {
	return &CodeIssuer{hasher: hasher}
}

// Issue returns a code drawn uniformly from [100000, 999999] and its
// argon2 hash. Only the hash is ever persisted.
func (c *CodeIssuer) Issue() (code, hash string, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", "", err
	}

	code = fmt.Sprintf("%06d", n.Int64()+100000)

	hash, err = c.hasher.Hash(code)
	if err != nil {
		return "", "", err
	}

	return code, hash, nil
}

// Matches reports whether candidate is the code behind storedHash.
func (c *CodeIssuer) Matches(candidate, storedHash string) (bool, error) {
	return c.hasher.Verify(candidate, storedHash)
}
