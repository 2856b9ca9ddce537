package auth

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"

	"github.com/noteful/noteful/internal/errs"
)

// DefaultTokenExpiry is how long issued auth tokens remain valid.
const DefaultTokenExpiry = 7 * 24 * time.Hour

// tokenClaims is the JWT payload: the serialized user plus standard claims
// (sub carries the username).
type tokenClaims struct {
	jwt.Claims
	User User `json:"user"`
}

// TokenIssuer signs and verifies auth tokens (HS256 JWTs).
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	clock  Clock
}

// NewTokenIssuer creates a token issuer. The secret must be non-empty; expiry
// of zero falls back to DefaultTokenExpiry.
func NewTokenIssuer(secret string, expiry time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &TokenIssuer{
		secret: []byte(secret),
		expiry: expiry,
		clock:  realClock{},
	}, nil
}

// SetClock replaces the clock used for issue and expiry checks. Intended for
// testing.
func (i *TokenIssuer) SetClock(c Clock) {
	i.clock = c
}

// Issue signs a fresh token for the user.
func (i *TokenIssuer) Issue(user *User) (string, error) {
	signer, err := jose.NewSigner(jose.SigningKey{
		Algorithm: jose.HS256,
		Key:       i.secret,
	}, (&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return "", fmt.Errorf("create signer: %w", err)
	}

	now := i.clock.Now()
	claims := tokenClaims{
		Claims: jwt.Claims{
			Subject:  user.Username,
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(i.expiry)),
		},
		User: *user,
	}

	token, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a token, returning the embedded user.
// Every failure mode (malformed, bad signature, expired) maps to the same
// unauthorized error.
func (i *TokenIssuer) Verify(token string) (*User, error) {
	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return nil, errs.Wrap(errs.Unauthorized, "invalid auth token", err)
	}

	var claims tokenClaims
	if err := parsed.Claims(i.secret, &claims); err != nil {
		return nil, errs.Wrap(errs.Unauthorized, "invalid auth token", err)
	}

	if err := claims.Validate(jwt.Expected{Time: i.clock.Now()}); err != nil {
		return nil, errs.Wrap(errs.Unauthorized, "invalid auth token", err)
	}

	user := claims.User
	return &user, nil
}
