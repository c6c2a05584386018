package identities

import (
	"context"
	"time"

	"github.com/ledgerline/payroll-server/internal/lockout"
	"github.com/ledgerline/payroll-server/internal/server/models"
)

// Repository is the identity store consumed by the credential
// authenticator. Lookups exclude soft-deleted records; lockout updates
// run inside the store's own transaction so concurrent failed logins
// against one identity serialize there.
type Repository interface {
	Create(ctx context.Context, identity *models.Identity) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	GetByID(ctx context.Context, id string) (*models.Identity, error)
	RecordFailedLogin(ctx context.Context, id string) error
	UpdateLockout(ctx context.Context, id string, state lockout.State) error
	RecordLogin(ctx context.Context, id string, at time.Time, rememberMe bool) error
}
