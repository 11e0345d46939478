package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

// DefaultTokenTTL is the lifetime of an access token.
const DefaultTokenTTL = time.Hour

type tokenClaims struct {
	UserID     int64 `json:"user_id"`
	IsAdmin    bool  `json:"is_admin"`
	IsStaff    bool  `json:"is_staff"`
	IsCustomer bool  `json:"is_customer"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 access tokens with a process-wide secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec returns a codec for secret. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token codec: empty signing secret")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the clock used for issuance and expiry checks.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue mints claims for user expiring ttl from now and encodes them.
func (c *TokenCodec) Issue(user *domain.User) (domain.Claims, string, error) {
	now := c.now().UTC().Truncate(time.Second)
	claims := domain.Claims{
		UserID:    user.ID,
		Roles:     user.Roles,
		IssuedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}
	token, err := c.Encode(claims)
	if err != nil {
		return domain.Claims{}, "", err
	}
	return claims, token, nil
}

// Encode signs claims as they are. Timestamps have one second precision.
func (c *TokenCodec) Encode(claims domain.Claims) (string, error) {
	isAdmin, isStaff, isCustomer := claims.Roles.Flags()
	tc := tokenClaims{
		UserID:     claims.UserID,
		IsAdmin:    isAdmin,
		IsStaff:    isStaff,
		IsCustomer: isCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", claims.UserID),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}
	if !claims.IssuedAt.IsZero() {
		tc.IssuedAt = jwt.NewNumericDate(claims.IssuedAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of token and returns its claims.
// Nothing from the payload is returned unless the signature checks out.
func (c *TokenCodec) Decode(token string) (domain.Claims, error) {
	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		// An expired token is only reported as such once its signature is valid;
		// the parser verifies the signature before it validates claims.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.ErrTokenExpired
		}
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	if !parsed.Valid {
		return domain.Claims{}, domain.ErrTokenMalformed
	}

	claims := domain.Claims{
		UserID: tc.UserID,
		Roles:  domain.RoleSetFromFlags(tc.IsAdmin, tc.IsStaff, tc.IsCustomer),
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time.UTC()
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time.UTC()
	}
	return claims, nil
}
