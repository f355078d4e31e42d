package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

// Estados de producto.
const (
	ProductStatusActive       = "active"
	ProductStatusDiscontinued = "discontinued"
)

// ProductUseCase casos de uso CRUD del catálogo general. El precio por empresa vive en CompanyProduct.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Devuelve domain.ErrDuplicate si el código ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.PackageSize.IsNegative() || in.ListPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Code:           in.Code,
		Name:           in.Name,
		Description:    in.Description,
		Brand:          in.Brand,
		ViscosityGrade: in.ViscosityGrade,
		PackageSize:    in.PackageSize,
		UnitMeasure:    in.UnitMeasure,
		ListPrice:      in.ListPrice,
		Status:         ProductStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID (nil si no existe).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. El código es inmutable.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.ViscosityGrade != nil {
		product.ViscosityGrade = *in.ViscosityGrade
	}
	if in.PackageSize != nil {
		if in.PackageSize.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.PackageSize = *in.PackageSize
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.ListPrice != nil {
		if in.ListPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.ListPrice = *in.ListPrice
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		Brand:          p.Brand,
		ViscosityGrade: p.ViscosityGrade,
		PackageSize:    p.PackageSize,
		UnitMeasure:    p.UnitMeasure,
		ListPrice:      p.ListPrice,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
