package identity

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/stratos-iam/stratos/internal/shared"
)

// StaticToken binds a bcrypt token hash to a provider identity. Raw tokens
// never appear in configuration.
type StaticToken struct {
	AuthID    string
	Email     string
	TokenHash string
}

// StaticVerifier verifies tokens against a fixed set of hashed entries.
// It stands in for the real identity provider in development and test
// deployments.
type StaticVerifier struct {
	entries []StaticToken
}

// NewStaticVerifier constructs a verifier from parsed entries.
func NewStaticVerifier(entries []StaticToken) *StaticVerifier {
	return &StaticVerifier{entries: entries}
}

// ParseStaticTokens parses the IDP_STATIC_TOKENS format:
// comma-separated "authID:email:bcryptHash" triples.
func ParseStaticTokens(raw string) ([]StaticToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var entries []StaticToken
	for _, part := range strings.Split(raw, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 3)
		if len(fields) != 3 || fields[0] == "" || fields[2] == "" {
			return nil, fmt.Errorf("identity: malformed static token entry %q", part)
		}
		entries = append(entries, StaticToken{AuthID: fields[0], Email: fields[1], TokenHash: fields[2]})
	}
	return entries, nil
}

// Verify compares the presented token against every stored hash.
func (v *StaticVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, shared.ErrInvalidToken
	}
	for _, entry := range v.entries {
		if err := bcrypt.CompareHashAndPassword([]byte(entry.TokenHash), []byte(token)); err == nil {
			return Identity{AuthID: entry.AuthID, Email: entry.Email}, nil
		}
	}
	return Identity{}, shared.ErrInvalidToken
}
