package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jocoker/cse340/models"
)

// TokenTTL is the lifetime of a session token and of the jwt cookie.
const TokenTTL = 3600 * time.Second

const sessionAudience = "session"

// ErrInvalidToken is returned for every verification failure: bad
// signature, wrong algorithm, expired, malformed or incomplete claims.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the fixed field set embedded in a session token. There is no
// password field.
type Claims struct {
	AccountID uint        `json:"account_id"`
	Email     string      `json:"account_email"`
	Role      models.Role `json:"account_type"`
	jwt.RegisteredClaims
}

// NewClaims builds token claims for an account.
func NewClaims(acct models.Account) Claims {
	return Claims{
		AccountID: acct.ID,
		Email:     acct.Email,
		Role:      acct.Type,
	}
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be > 0")
	}
	return &TokenIssuer{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue signs claims with HS256. Registered claims set by the caller are
// replaced.
func (i *TokenIssuer) Issue(claims Claims) (string, error) {
	if claims.AccountID == 0 || !claims.Role.Valid() {
		return "", fmt.Errorf("issue token: incomplete claims")
	}
	now := i.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{sessionAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded claims.
func (i *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.AccountID == 0 || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
