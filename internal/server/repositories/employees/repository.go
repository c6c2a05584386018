package employees

import (
	"context"

	"github.com/ledgerline/payroll-server/internal/server/models"
)

// Repository persists employee records. The Encrypted* columns arrive
// already sealed by fieldcrypt; this layer treats them as opaque text.
type Repository interface {
	Create(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
}
