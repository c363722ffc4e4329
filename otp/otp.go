// Package otp provides short-lived, single-use verification codes keyed
// by purpose and recipient. Codes expire after a TTL and are consumed on
// first successful verification. The store is an interface so a
// multi-instance deployment can back it with Redis instead of process
// memory.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DefaultTTL is how long a generated code stays valid.
const DefaultTTL = 5 * time.Minute

// Store is a keyed code store with explicit expiry. Consume verifies
// and deletes in one step; a code can never be used twice.
type Store interface {
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	Consume(ctx context.Context, key, code string) (bool, error)
}

// GenerateCode returns a random 6-digit numeric code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Key builds the store key for a purpose and recipient,
// e.g. Key("customer_delete", "admin@svpharma.in").
func Key(purpose, recipient string) string {
	return "otp:" + purpose + ":" + recipient
}
