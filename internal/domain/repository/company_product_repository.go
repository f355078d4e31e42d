package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
)

// CompanyProductRepository puerto del libro de precios vigentes por (empresa, producto).
type CompanyProductRepository interface {
	Create(ctx context.Context, cp *entity.CompanyProduct) error
	GetByID(ctx context.Context, id string) (*entity.CompanyProduct, error)
	// GetForUpdate obtiene la fila y la bloquea hasta el fin de la transacción (nil si no existe).
	GetForUpdate(ctx context.Context, id string) (*entity.CompanyProduct, error)
	ListByCompany(ctx context.Context, companyID string, onlyEnabled bool, limit, offset int) ([]*entity.CompanyProduct, error)
	// UpdatePriceAndExpiry sobrescribe el precio; expiry nil deja intacta la vigencia actual.
	// Devuelve domain.ErrNotFound si la fila no existe.
	UpdatePriceAndExpiry(ctx context.Context, id string, price decimal.Decimal, expiry *time.Time) error
}
