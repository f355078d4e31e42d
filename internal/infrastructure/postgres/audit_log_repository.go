package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora administrativa. Solo INSERT y SELECT.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador de bitácora.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create agrega una entrada. Un actor inexistente devuelve domain.ErrNotFound.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, actor_id, action, target_type, target_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ActorID, e.Action, e.TargetType, e.TargetID, e.Details, e.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("actor %s: %w", e.ActorID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert audit_log: %w", err)
	}
	return nil
}

// List consulta la bitácora, lo más reciente primero.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditLogFilter) ([]*entity.AuditLog, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v string) {
		if v == "" {
			return
		}
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	add("target_type = $%d", f.TargetType)
	add("target_id = $%d", f.TargetID)
	add("action = $%d", f.Action)

	query := `SELECT id, actor_id, action, target_type, target_id, details, created_at FROM audit_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit_logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var e entity.AuditLog
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.TargetType, &e.TargetID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit_log: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
