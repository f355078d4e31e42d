package usecase

import (
	"context"

	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

// AuditUseCase consultas sobre la bitácora administrativa.
type AuditUseCase struct {
	repo repository.AuditLogRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditLogRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// List devuelve entradas filtradas, las más recientes primero.
func (uc *AuditUseCase) List(ctx context.Context, filter repository.AuditLogFilter) (*dto.AuditLogListResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.AuditLogResponse{
			ID:         e.ID,
			ActorID:    e.ActorID,
			Action:     e.Action,
			TargetType: e.TargetType,
			TargetID:   e.TargetID,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt,
		})
	}
	return &dto.AuditLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}
