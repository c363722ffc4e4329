package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreConsumeOnce(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, Key("customer_delete", "admin@example.com"), "482913", DefaultTTL))

	ok, err := store.Consume(ctx, Key("customer_delete", "admin@example.com"), "482913")
	require.NoError(t, err)
	require.True(t, ok)

	// Second use of the same code must fail.
	ok, err = store.Consume(ctx, Key("customer_delete", "admin@example.com"), "482913")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreWrongCodeBurnsEntry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "otp:k", "111111", DefaultTTL))

	ok, err := store.Consume(ctx, "otp:k", "222222")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = store.Consume(ctx, "otp:k", "111111")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	current := time.Now()
	store.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "otp:k", "654321", time.Minute))

	current = current.Add(2 * time.Minute)
	ok, err := store.Consume(ctx, "otp:k", "654321")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9')
		}
	}
}
