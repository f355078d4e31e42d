package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/jhoicas/Lubricantes-api/internal/application/pricing"
	"github.com/jhoicas/Lubricantes-api/pkg/logger"
)

// DefaultKey clave del candado del lote de precios programados.
const DefaultKey = "lubricantes:pricing:apply-schedules"

var _ pricing.RunLock = (*Lock)(nil)

// releaseScript borra la clave solo si sigue siendo nuestra.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock candado SET NX con TTL. Si el proceso muere, la clave expira sola.
type Lock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
	log *logger.Logger
}

// New construye el candado. key vacío usa DefaultKey.
func New(rdb *redis.Client, key string, ttl time.Duration, log *logger.Logger) *Lock {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Lock{rdb: rdb, key: key, ttl: ttl, log: log}
}

// TryAcquire intenta tomar el candado sin esperar.
func (l *Lock) TryAcquire(ctx context.Context) (func(), bool, error) {
	token := uuid.New().String()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx %s: %w", l.key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		// El ctx del caller puede estar cancelado; la liberación usa uno propio.
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.rdb, []string{l.key}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", l.key).Msg("no se pudo liberar el candado del lote")
		}
	}
	return release, true, nil
}
