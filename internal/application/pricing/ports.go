package pricing

import (
	"context"
	"errors"

	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

// Errores a nivel de invocación del lote. Cuando se devuelven, nada del lote quedó persistido.
var (
	// ErrSelection falló la lectura inicial de programaciones vencidas.
	ErrSelection = errors.New("pricing: no se pudieron leer las programaciones vencidas")
	// ErrTxAborted la transacción del lote no pudo confirmarse o quedó inutilizable.
	ErrTxAborted = errors.New("pricing: la transacción del lote fue abortada")
)

// Repos repositorios atados a la transacción en curso.
type Repos struct {
	Schedules repository.PriceScheduleRepository
	Ledger    repository.CompanyProductRepository
	Audit     repository.AuditLogRepository
}

// Tx unidad de trabajo de precios: repos de la transacción externa y savepoints por ítem.
type Tx interface {
	Repos() Repos
	// Savepoint ejecuta fn dentro de un savepoint. Si fn falla se revierte solo lo hecho por fn
	// y se devuelve su error; si no se puede revertir el savepoint, el error envuelve ErrTxAborted.
	Savepoint(ctx context.Context, fn func(repos Repos) error) error
}

// TxRunner abre una transacción, ejecuta fn y hace Commit o Rollback.
// Lo implementa infrastructure/postgres.TxRunner; en tests, testutil.InMemoryPricingStore.
type TxRunner interface {
	RunPricing(ctx context.Context, fn func(tx Tx) error) error
}

// RunLock candado entre procesos para evitar lotes solapados. Es solo una protección gruesa:
// la garantía de no aplicar dos veces la da la base de datos.
type RunLock interface {
	// TryAcquire devuelve ok=false si otro proceso tiene el candado.
	TryAcquire(ctx context.Context) (release func(), ok bool, err error)
}
