package companies

import (
	"context"

	"github.com/ledgerline/payroll-server/internal/server/models"
)

// Repository resolves tenants, primarily so the authenticator can embed
// the tenant id/name in session claims.
type Repository interface {
	Create(ctx context.Context, company *models.Company) (*models.Company, error)
	GetByID(ctx context.Context, id string) (*models.Company, error)
	UpdateEIN(ctx context.Context, id string, encryptedEIN string) error
}
