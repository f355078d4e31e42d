package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

var _ repository.PriceScheduleRepository = (*PriceScheduleRepo)(nil)

// PriceScheduleRepo almacén de programaciones de precio sobre PostgreSQL.
type PriceScheduleRepo struct {
	q Querier
}

// NewPriceScheduleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceScheduleRepository(q Querier) *PriceScheduleRepo {
	return &PriceScheduleRepo{q: q}
}

const priceScheduleColumns = `ps.id, ps.company_product_id, ps.scheduled_price, ps.effective_date, ps.expiry_date,
	ps.is_applied, ps.applied_at, ps.created_by, ps.created_at, ps.updated_at`

func scanPriceSchedule(row pgx.Row) (*entity.PriceSchedule, error) {
	var s entity.PriceSchedule
	err := row.Scan(
		&s.ID, &s.CompanyProductID, &s.ScheduledPrice, &s.EffectiveDate, &s.ExpiryDate,
		&s.IsApplied, &s.AppliedAt, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectPriceSchedules(rows pgx.Rows) ([]*entity.PriceSchedule, error) {
	defer rows.Close()
	var list []*entity.PriceSchedule
	for rows.Next() {
		s, err := scanPriceSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price_schedule: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Create persiste una programación pendiente.
func (r *PriceScheduleRepo) Create(ctx context.Context, s *entity.PriceSchedule) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO price_schedules (id, company_product_id, scheduled_price, effective_date, expiry_date,
		                             is_applied, applied_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.CompanyProductID, s.ScheduledPrice, s.EffectiveDate, s.ExpiryDate,
		s.IsApplied, s.AppliedAt, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert price_schedule: %w", err)
	}
	return nil
}

// GetByID obtiene una programación (nil si no existe).
func (r *PriceScheduleRepo) GetByID(ctx context.Context, id string) (*entity.PriceSchedule, error) {
	s, err := scanPriceSchedule(r.q.QueryRow(ctx, `SELECT `+priceScheduleColumns+` FROM price_schedules ps WHERE ps.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price_schedule: %w", err)
	}
	return s, nil
}

// List lista programaciones, las más próximas primero.
func (r *PriceScheduleRepo) List(ctx context.Context, f repository.PriceScheduleFilter) ([]*entity.PriceSchedule, error) {
	var (
		where []string
		args  []any
	)
	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		where = append(where, fmt.Sprintf("cp.company_id = $%d", len(args)))
	}
	switch f.Status {
	case "pending":
		where = append(where, "ps.is_applied = false")
	case "applied":
		where = append(where, "ps.is_applied = true")
	}

	query := `SELECT ` + priceScheduleColumns + `
		FROM price_schedules ps
		JOIN company_products cp ON cp.id = ps.company_product_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY ps.effective_date ASC, ps.id ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list price_schedules: %w", err)
	}
	return collectPriceSchedules(rows)
}

// FindDueUnapplied selecciona y bloquea las programaciones vencidas. Un lote concurrente que
// llegue después espera los bloqueos y, bajo READ COMMITTED, vuelve a evaluar is_applied:
// las filas que el primero confirmó quedan fuera de su resultado.
func (r *PriceScheduleRepo) FindDueUnapplied(ctx context.Context, now time.Time) ([]*entity.PriceSchedule, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+priceScheduleColumns+`
		FROM price_schedules ps
		WHERE ps.effective_date <= $1 AND ps.is_applied = false
		ORDER BY ps.effective_date ASC, ps.id ASC
		FOR UPDATE`, now)
	if err != nil {
		return nil, fmt.Errorf("find due price_schedules: %w", err)
	}
	return collectPriceSchedules(rows)
}

// MarkApplied compare-and-set sobre is_applied.
func (r *PriceScheduleRepo) MarkApplied(ctx context.Context, id string, appliedAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE price_schedules
		SET is_applied = true, applied_at = $2, updated_at = $2
		WHERE id = $1 AND is_applied = false`,
		id, appliedAt,
	)
	if err != nil {
		return fmt.Errorf("mark price_schedule applied: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrScheduleAlreadyApplied
	}
	return nil
}

// DeletePending elimina una programación no aplicada. Si ya se aplicó devuelve
// domain.ErrScheduleAlreadyApplied; si no existe, domain.ErrNotFound.
func (r *PriceScheduleRepo) DeletePending(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM price_schedules WHERE id = $1 AND is_applied = false`, id)
	if err != nil {
		return fmt.Errorf("delete price_schedule: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return domain.ErrScheduleAlreadyApplied
}
