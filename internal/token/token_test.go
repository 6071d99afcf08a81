package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"order-portal-backend/internal/token"
)

func TestIssue_ExpiryIsExactlySevenDays(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 15, 9, 26, 0, time.FixedZone("CET", 3600))
	gen := token.NewGeneratorWithClock(func() time.Time { return fixed })

	tok := gen.Issue()

	assert.Equal(t, time.UTC, tok.IssuedAt.Location())
	assert.Equal(t, time.UTC, tok.ExpiresAt.Location())
	assert.Equal(t, token.TTL, tok.ExpiresAt.Sub(tok.IssuedAt))
	assert.Equal(t, fixed.UTC(), tok.IssuedAt)
}

func TestIssue_TokensAreDistinct(t *testing.T) {
	gen := token.NewGenerator()

	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		tok := gen.Issue()
		require.NotEmpty(t, tok.Value)
		_, dup := seen[tok.Value]
		require.False(t, dup, "duplicate token after %d issues", i)
		seen[tok.Value] = struct{}{}
	}
}
