package token

import (
	"time"

	"github.com/google/uuid"
)

// TTL is how long a client access token stays valid after issuance.
const TTL = 7 * 24 * time.Hour

// Token is an order access credential: an unguessable 128-bit random value
// plus the instant it was issued and the instant it stops being honored.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Generator issues order access tokens. The zero value is not usable; use
// NewGenerator.
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// NewGeneratorWithClock is for tests that need a deterministic clock.
func NewGeneratorWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Issue returns a fresh token. IssuedAt and ExpiresAt come from the same
// clock reading, in UTC, so ExpiresAt - IssuedAt is always exactly TTL.
func (g *Generator) Issue() Token {
	issued := g.now().UTC()
	return Token{
		Value:     uuid.New().String(),
		IssuedAt:  issued,
		ExpiresAt: issued.Add(TTL),
	}
}

// Now exposes the generator's clock so callers enforcing expiry use the same
// time source that issued the token.
func (g *Generator) Now() time.Time {
	return g.now().UTC()
}
