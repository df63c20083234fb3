package postgres

import (
	"crypto/rand"
	"math/big"

	"github.com/oklog/ulid/v2"
)

const (
	accountNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	accountNumberLength   = 8
)

// ULIDGenerator generates ULID transaction IDs and random account numbers.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// AccountNumber generates an 8-character uppercase alphanumeric account
// number. Uniqueness is enforced by the primary key; the keyspace makes a
// collision on insert vanishingly rare.
func (g *ULIDGenerator) AccountNumber() string {
	buf := make([]byte, accountNumberLength)
	max := big.NewInt(int64(len(accountNumberAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		buf[i] = accountNumberAlphabet[n.Int64()]
	}
	return string(buf)
}
