// Package token issues and validates the signed session tokens used for
// login sessions. Tokens are compact HS256 JWTs; access and refresh
// tokens share one claims shape and differ only by TTL.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgerline/payroll-server/internal/common"
)

// SessionClaims is the fixed, versioned claim set embedded in every
// session token. Subject carries the account email; tenant fields bind
// the session to one company. Immutable once issued.
type SessionClaims struct {
	jwt.RegisteredClaims
	IdentityID string `json:"identity_id"`
	Role       string `json:"role"`
	TenantID   string `json:"tenant_id"`
	TenantName string `json:"tenant_name,omitempty"`
}

// Subject bundles the identity facts stamped into a token at issuance.
type Subject struct {
	Email      string
	IdentityID string
	Role       string
	TenantID   string
	TenantName string
}

// Service signs and verifies session tokens with a process-wide HMAC
// secret supplied at construction. Pure and safe for concurrent use.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(secret []byte) *Service {
	return &Service{secret: secret, now: time.Now}
}

// Issue serializes sub plus issued-at/expires-at timestamps and signs
// the whole payload. The token is self-contained and URL-safe.
func (s *Service) Issue(sub Subject, ttl time.Duration) (string, error) {
	now := s.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		IdentityID: sub.IdentityID,
		Role:       sub.Role,
		TenantID:   sub.TenantID,
		TenantName: sub.TenantName,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate reports whether tokenString carries a valid signature and has
// not expired. It never returns an error for untrusted input; any parse
// failure is simply false. A token signed by a different secret or
// issued with a non-positive TTL fails here.
func (s *Service) Validate(tokenString string) bool {
	_, err := s.parse(tokenString)
	return err == nil
}

// ExtractClaims parses and verifies tokenString and returns its claims.
// Callers are expected to have passed the token through Validate first;
// an invalid token yields ErrInvalidToken.
func (s *Service) ExtractClaims(tokenString string) (*SessionClaims, error) {
	return s.parse(tokenString)
}

// ExtractSubject returns the subject (email) claim of a verified token.
func (s *Service) ExtractSubject(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *Service) parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
