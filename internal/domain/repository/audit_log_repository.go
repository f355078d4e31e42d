package repository

import (
	"context"

	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
)

// AuditLogFilter filtros de consulta de la bitácora.
type AuditLogFilter struct {
	TargetType string
	TargetID   string
	Action     string
	Limit      int
	Offset     int
}

// AuditLogRepository bitácora administrativa de solo inserción.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]*entity.AuditLog, error)
}
