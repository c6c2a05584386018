// Package auth implements the credential authenticator: login with
// lockout bookkeeping, access-token refresh, stateless logout, and token
// introspection for other services.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/ledgerline/payroll-server/internal/common"
	"github.com/ledgerline/payroll-server/internal/logging"
	"github.com/ledgerline/payroll-server/internal/password"
	"github.com/ledgerline/payroll-server/internal/server/config"
	"github.com/ledgerline/payroll-server/internal/server/models"
	"github.com/ledgerline/payroll-server/internal/server/repositories/companies"
	"github.com/ledgerline/payroll-server/internal/server/repositories/identities"
	"github.com/ledgerline/payroll-server/internal/token"
)

// TokenPair bundles a short-lived access token and a longer-lived
// refresh token. The two share one claims shape and differ only by TTL.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// IdentitySummary is the public slice of an identity returned to callers
// after a successful login or introspection. It never carries the
// password hash.
type IdentitySummary struct {
	ID         string
	Email      string
	Name       string
	Role       string
	TenantID   string
	TenantName string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Tokens   TokenPair
	Identity IdentitySummary
}

// Introspection reports whether a bearer token is still good and, if so,
// whose it is.
type Introspection struct {
	Active   bool
	Identity *IdentitySummary
}

// Authenticator orchestrates the identity store, password hasher, and
// token service. All state lives in those collaborators; the struct
// itself is immutable after construction and safe for concurrent use.
type Authenticator struct {
	identities identities.Repository
	companies  companies.Repository
	hasher     *password.Hasher
	tokens     *token.Service
	logger     logging.Logger

	accessTTL   time.Duration
	refreshTTL  time.Duration
	rememberTTL time.Duration

	now func() time.Time
}

func NewAuthenticator(
	ir identities.Repository,
	cr companies.Repository,
	hasher *password.Hasher,
	tokens *token.Service,
	cfg *config.Config,
	logger logging.Logger,
) *Authenticator {
	return &Authenticator{
		identities:  ir,
		companies:   cr,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
		accessTTL:   cfg.AccessTokenTTL,
		refreshTTL:  cfg.RefreshTokenTTL,
		rememberTTL: cfg.RememberMeTTL,
		now:         time.Now,
	}
}

// Login verifies email/password and, on success, resets the lockout
// state, stamps the last login, and issues a token pair. A missing
// account and a wrong password are indistinguishable to the caller;
// locked and inactive accounts are reported distinctly since those
// states are not secrets.
func (a *Authenticator) Login(ctx context.Context, email, plaintext string, rememberMe bool) (*LoginResult, error) {
	identity, err := a.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		a.logger.Error(ctx, "identity lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !identity.Active {
		return nil, common.ErrAccountInactive
	}

	now := a.now()
	if identity.Lockout.Locked(now) {
		// No password comparison while the lock window is open.
		return nil, common.ErrAccountLocked
	}

	if !a.hasher.Verify(plaintext, identity.PasswordHash) {
		if err := a.identities.RecordFailedLogin(ctx, identity.ID); err != nil {
			a.logger.Error(ctx, "recording failed login", "error", err, "identity_id", identity.ID)
		}
		return nil, common.ErrInvalidCredentials
	}

	if err := a.identities.RecordLogin(ctx, identity.ID, now, rememberMe); err != nil {
		a.logger.Error(ctx, "recording login", "error", err, "identity_id", identity.ID)
		return nil, common.ErrorInternal
	}

	tenantName, err := a.tenantName(ctx, identity.CompanyID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	pair, err := a.issueTokenPair(identity, tenantName, rememberMe)
	if err != nil {
		a.logger.Error(ctx, "issuing token pair", "error", err, "identity_id", identity.ID)
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		Tokens:   *pair,
		Identity: summarize(identity, tenantName),
	}, nil
}

// RefreshAccessToken validates a refresh token and mints a fresh access
// token for the same identity, which must still exist, not be
// soft-deleted, and still be active. Tokens have no revocation store,
// so this liveness check is the only thing standing between a
// deactivated account and a fresh session. The new token always gets
// the default access TTL, even when the original session was issued
// with the extended remember-me duration.
func (a *Authenticator) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := a.tokens.ExtractClaims(refreshToken)
	if err != nil {
		return "", common.ErrInvalidToken
	}

	identity, err := a.identities.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrInvalidToken
		}
		a.logger.Error(ctx, "identity lookup failed", "error", err)
		return "", common.ErrorInternal
	}

	if !identity.Active {
		return "", common.ErrInvalidToken
	}

	tenantName, err := a.tenantName(ctx, identity.CompanyID)
	if err != nil {
		return "", common.ErrorInternal
	}

	access, err := a.tokens.Issue(subjectOf(identity, tenantName), a.accessTTL)
	if err != nil {
		a.logger.Error(ctx, "issuing access token", "error", err, "identity_id", identity.ID)
		return "", common.ErrorInternal
	}
	return access, nil
}

// Logout checks that the presented token is valid and does nothing else:
// there is no server-side session state to clear, so the token remains
// technically valid until its natural expiry and the client must discard
// it.
func (a *Authenticator) Logout(ctx context.Context, tokenString string) error {
	if !a.tokens.Validate(tokenString) {
		return common.ErrInvalidToken
	}
	return nil
}

// Introspect is the non-throwing composite other services use to
// authorize a bearer token: signature/expiry check, identity liveness,
// and active-status check in one call. Any failure yields an inactive
// result rather than an error.
func (a *Authenticator) Introspect(ctx context.Context, tokenString string) Introspection {
	claims, err := a.tokens.ExtractClaims(tokenString)
	if err != nil {
		return Introspection{}
	}

	identity, err := a.identities.GetByEmail(ctx, claims.Subject)
	if err != nil {
		return Introspection{}
	}
	if !identity.Active {
		return Introspection{}
	}

	tenantName, err := a.tenantName(ctx, identity.CompanyID)
	if err != nil {
		return Introspection{}
	}

	summary := summarize(identity, tenantName)
	return Introspection{Active: true, Identity: &summary}
}

// --- helpers below ---

func (a *Authenticator) issueTokenPair(identity *models.Identity, tenantName string, rememberMe bool) (*TokenPair, error) {
	accessTTL, refreshTTL := a.accessTTL, a.refreshTTL
	if rememberMe {
		accessTTL, refreshTTL = a.rememberTTL, a.rememberTTL
	}

	sub := subjectOf(identity, tenantName)

	access, err := a.tokens.Issue(sub, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := a.tokens.Issue(sub, refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (a *Authenticator) tenantName(ctx context.Context, companyID string) (string, error) {
	company, err := a.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		a.logger.Error(ctx, "company lookup failed", "error", err, "company_id", companyID)
		return "", err
	}
	return company.Name, nil
}

func subjectOf(identity *models.Identity, tenantName string) token.Subject {
	return token.Subject{
		Email:      identity.Email,
		IdentityID: identity.ID,
		Role:       identity.Role,
		TenantID:   identity.CompanyID,
		TenantName: tenantName,
	}
}

func summarize(identity *models.Identity, tenantName string) IdentitySummary {
	return IdentitySummary{
		ID:         identity.ID,
		Email:      identity.Email,
		Name:       identity.FullName(),
		Role:       identity.Role,
		TenantID:   identity.CompanyID,
		TenantName: tenantName,
	}
}
