package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Lubricantes-api/internal/application/pricing"
)

// Ensure TxRunner implements pricing.TxRunner.
var _ pricing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPricing inicia una transacción READ COMMITTED, ejecuta fn con repos de precios atados a la tx
// y hace Commit o Rollback. Si no se puede abrir la tx el almacén no responde: pricing.ErrSelection.
// Un fallo de Commit se devuelve envuelto en pricing.ErrTxAborted.
func (r *TxRunner) RunPricing(ctx context.Context, fn func(tx pricing.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", pricing.ErrSelection, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pricingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", pricing.ErrTxAborted, err)
	}
	return nil
}

// pricingTx adapta pgx.Tx al puerto pricing.Tx. Los savepoints son transacciones anidadas de pgx.
type pricingTx struct {
	tx pgx.Tx
}

func pricingRepos(q Querier) pricing.Repos {
	return pricing.Repos{
		Schedules: NewPriceScheduleRepository(q),
		Ledger:    NewCompanyProductRepository(q),
		Audit:     NewAuditLogRepository(q),
	}
}

func (t *pricingTx) Repos() pricing.Repos {
	return pricingRepos(t.tx)
}

// Savepoint ejecuta fn dentro de SAVEPOINT; si fn falla hace ROLLBACK TO SAVEPOINT.
func (t *pricingTx) Savepoint(ctx context.Context, fn func(repos pricing.Repos) error) error {
	sp, err := t.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: abrir savepoint: %w", pricing.ErrTxAborted, err)
	}
	if err := fn(pricingRepos(sp)); err != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w: revertir savepoint: %w", pricing.ErrTxAborted, rbErr)
		}
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("%w: liberar savepoint: %w", pricing.ErrTxAborted, err)
	}
	return nil
}
