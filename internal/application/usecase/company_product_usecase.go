package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/application/pricing"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

// CompanyProductUseCase administra el libro de precios vigentes por empresa.
type CompanyProductUseCase struct {
	txRunner    pricing.TxRunner
	ledger      repository.CompanyProductRepository
	companyRepo repository.CompanyRepository
	productRepo repository.ProductRepository
}

// NewCompanyProductUseCase construye el caso de uso.
func NewCompanyProductUseCase(
	txRunner pricing.TxRunner,
	ledger repository.CompanyProductRepository,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
) *CompanyProductUseCase {
	return &CompanyProductUseCase{txRunner: txRunner, ledger: ledger, companyRepo: companyRepo, productRepo: productRepo}
}

// Enable agrega un producto al catálogo de una empresa, con o sin precio inicial.
// El par (empresa, producto) es único: un segundo intento devuelve domain.ErrDuplicate.
func (uc *CompanyProductUseCase) Enable(ctx context.Context, in dto.EnableCompanyProductRequest) (*dto.CompanyProductResponse, error) {
	if in.Price != nil && !entity.IsValidPrice(*in.Price) {
		return nil, domain.ErrInvalidPrice
	}
	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	cp := &entity.CompanyProduct{
		ID:                  uuid.New().String(),
		CompanyID:           company.ID,
		ProductID:           product.ID,
		Price:               in.Price,
		QuotationExpiryDate: in.QuotationExpiryDate,
		IsEnabled:           true,
		CreatedAt:           now,
		UpdatedAt:           now,
		CompanyName:         company.Name,
		ProductName:         product.Name,
		ProductCode:         product.Code,
	}
	if err := uc.ledger.Create(ctx, cp); err != nil {
		return nil, err
	}
	return toCompanyProductResponse(cp), nil
}

// ListByCompany catálogo de una empresa. onlyEnabled filtra lo visible para el comprador.
func (uc *CompanyProductUseCase) ListByCompany(ctx context.Context, companyID string, onlyEnabled bool, limit, offset int) (*dto.CompanyProductListResponse, error) {
	list, err := uc.ledger.ListByCompany(ctx, companyID, onlyEnabled, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyProductResponse, 0, len(list))
	for _, cp := range list {
		items = append(items, *toCompanyProductResponse(cp))
	}
	return &dto.CompanyProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// UpdatePrice edición manual del precio vigente. Bloquea la fila del libro, de modo que no se
// intercala con un lote de precios programados, y deja constancia en la bitácora.
func (uc *CompanyProductUseCase) UpdatePrice(ctx context.Context, actorID, id string, in dto.UpdateCompanyProductPriceRequest) (*dto.CompanyProductResponse, error) {
	if !entity.IsValidPrice(in.Price) {
		return nil, domain.ErrInvalidPrice
	}
	var updated *entity.CompanyProduct
	err := uc.txRunner.RunPricing(ctx, func(tx pricing.Tx) error {
		r := tx.Repos()
		cp, err := r.Ledger.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cp == nil {
			return domain.ErrNotFound
		}
		if err := r.Ledger.UpdatePriceAndExpiry(ctx, id, in.Price, in.QuotationExpiryDate); err != nil {
			return err
		}
		before := "sin precio"
		if cp.Price != nil {
			before = cp.Price.StringFixed(2)
		}
		if err := r.Audit.Create(ctx, &entity.AuditLog{
			ID:         uuid.New().String(),
			ActorID:    actorID,
			Action:     entity.AuditActionUpdatePrice,
			TargetType: entity.AuditTargetCompanyProduct,
			TargetID:   id,
			Details: fmt.Sprintf("Precio actualizado manualmente para %s (%s): %s → %s",
				cp.ProductName, cp.CompanyName, before, in.Price.StringFixed(2)),
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		updated, err = r.Ledger.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toCompanyProductResponse(updated), nil
}

func toCompanyProductResponse(cp *entity.CompanyProduct) *dto.CompanyProductResponse {
	if cp == nil {
		return nil
	}
	return &dto.CompanyProductResponse{
		ID:                  cp.ID,
		CompanyID:           cp.CompanyID,
		CompanyName:         cp.CompanyName,
		ProductID:           cp.ProductID,
		ProductCode:         cp.ProductCode,
		ProductName:         cp.ProductName,
		Price:               cp.Price,
		QuotationExpiryDate: cp.QuotationExpiryDate,
		IsEnabled:           cp.IsEnabled,
		UpdatedAt:           cp.UpdatedAt,
	}
}
