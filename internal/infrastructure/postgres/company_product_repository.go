package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

var _ repository.CompanyProductRepository = (*CompanyProductRepo)(nil)

// CompanyProductRepo libro de precios vigentes sobre PostgreSQL. Usable con pool o tx.
type CompanyProductRepo struct {
	q Querier
}

// NewCompanyProductRepository construye el adaptador del libro de precios.
func NewCompanyProductRepository(q Querier) *CompanyProductRepo {
	return &CompanyProductRepo{q: q}
}

const companyProductSelect = `
	SELECT cp.id, cp.company_id, cp.product_id, cp.price, cp.quotation_expiry_date, cp.is_enabled,
	       cp.created_at, cp.updated_at, c.name, p.name, p.code
	FROM company_products cp
	JOIN companies c ON c.id = cp.company_id
	JOIN products p ON p.id = cp.product_id`

func scanCompanyProduct(row pgx.Row) (*entity.CompanyProduct, error) {
	var cp entity.CompanyProduct
	err := row.Scan(
		&cp.ID, &cp.CompanyID, &cp.ProductID, &cp.Price, &cp.QuotationExpiryDate, &cp.IsEnabled,
		&cp.CreatedAt, &cp.UpdatedAt, &cp.CompanyName, &cp.ProductName, &cp.ProductCode,
	)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// Create habilita un producto para una empresa. Par repetido = domain.ErrDuplicate;
// empresa o producto inexistente = domain.ErrNotFound.
func (r *CompanyProductRepo) Create(ctx context.Context, cp *entity.CompanyProduct) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO company_products (id, company_id, product_id, price, quotation_expiry_date, is_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		cp.ID, cp.CompanyID, cp.ProductID, cp.Price, cp.QuotationExpiryDate, cp.IsEnabled, cp.CreatedAt, cp.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert company_product: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada del libro (nil si no existe).
func (r *CompanyProductRepo) GetByID(ctx context.Context, id string) (*entity.CompanyProduct, error) {
	cp, err := scanCompanyProduct(r.q.QueryRow(ctx, companyProductSelect+` WHERE cp.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company_product: %w", err)
	}
	return cp, nil
}

// GetForUpdate igual que GetByID pero bloquea solo la fila del libro hasta el fin de la tx.
func (r *CompanyProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.CompanyProduct, error) {
	cp, err := scanCompanyProduct(r.q.QueryRow(ctx, companyProductSelect+` WHERE cp.id = $1 FOR UPDATE OF cp`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company_product for update: %w", err)
	}
	return cp, nil
}

// ListByCompany lista el catálogo de una empresa ordenado por nombre de producto.
func (r *CompanyProductRepo) ListByCompany(ctx context.Context, companyID string, onlyEnabled bool, limit, offset int) ([]*entity.CompanyProduct, error) {
	query := companyProductSelect + ` WHERE cp.company_id = $1`
	if onlyEnabled {
		query += ` AND cp.is_enabled = true`
	}
	query += ` ORDER BY p.name ASC, cp.id ASC LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list company_products: %w", err)
	}
	defer rows.Close()
	var list []*entity.CompanyProduct
	for rows.Next() {
		cp, err := scanCompanyProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company_product: %w", err)
		}
		list = append(list, cp)
	}
	return list, rows.Err()
}

// UpdatePriceAndExpiry sobrescribe el precio vigente. Con expiry nil la vigencia actual se conserva.
func (r *CompanyProductRepo) UpdatePriceAndExpiry(ctx context.Context, id string, price decimal.Decimal, expiry *time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE company_products
		SET price = $2,
		    quotation_expiry_date = COALESCE($3::timestamptz, quotation_expiry_date),
		    updated_at = now()
		WHERE id = $1`,
		id, price, expiry,
	)
	if err != nil {
		return fmt.Errorf("update company_product price: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
