package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no expiry is configured.
const DefaultTokenTTL = 30 * time.Minute

// ErrInvalidToken is the only error Verify returns. Malformed tokens, bad
// signatures and expired tokens are deliberately indistinguishable.
var ErrInvalidToken = errors.New("invalid token")

// Claims is what a verified token asserts.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Signer issues and verifies HMAC-signed bearer tokens.
type Signer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner builds a Signer for one of HS256, HS384 or HS512.
func NewSigner(secret []byte, algorithm string, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{secret: secret, method: method, ttl: ttl, now: time.Now}, nil
}

// TTL returns how long issued tokens stay valid.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject that expires after the configured TTL.
func (s *Signer) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (s *Signer) Verify(tokenStr string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	out := &Claims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
