// apply-prices ejecuta una vez el lote de precios programados y escribe el resumen en JSON.
//
// Uso: go run ./cmd/apply-prices -actor <user-id> [-now 2025-01-31T00:00:00Z]
// Sale con código 1 si la invocación falla (nada quedó aplicado).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Lubricantes-api/internal/application/pricing"
	"github.com/jhoicas/Lubricantes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Lubricantes-api/internal/infrastructure/redislock"
	"github.com/jhoicas/Lubricantes-api/pkg/config"
	"github.com/jhoicas/Lubricantes-api/pkg/logger"
)

func main() {
	actor := flag.String("actor", "", "ID del usuario que figura en la bitácora (por defecto PRICING_SYSTEM_ACTOR_ID)")
	nowFlag := flag.String("now", "", "instante de corte RFC3339 (por defecto la hora actual)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	actorID := *actor
	if actorID == "" {
		actorID = cfg.Pricing.SystemActorID
	}
	if actorID == "" {
		fmt.Fprintln(os.Stderr, "se requiere -actor o PRICING_SYSTEM_ACTOR_ID")
		os.Exit(2)
	}
	now := time.Now()
	if *nowFlag != "" {
		now, err = time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "-now inválido:", err)
			os.Exit(2)
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var runLock pricing.RunLock
	if cfg.Redis.URL != "" {
		rdb, err := redislock.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		runLock = redislock.New(rdb, "", cfg.Pricing.LockTTL, log)
	}

	uc := pricing.NewApplyScheduledPricesUseCase(postgres.NewTxRunner(pool), runLock, log)
	summary, err := uc.ApplyDueSchedules(ctx, now, actorID)
	if err != nil {
		log.Error().Err(err).Msg("lote de precios programados fallido")
		pool.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Error().Err(err).Msg("escribir resumen")
	}
}
