// seed-admin crea la empresa operadora y su primer usuario admin. El registro por API
// exige un admin autenticado, así que el primero se crea con este comando.
//
// Uso: go run ./cmd/seed-admin -company "Lubricantes SAS" -nit 900123456 -email admin@lubricantes.co -password ********
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Lubricantes-api/internal/application/auth"
	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/application/usecase"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Lubricantes-api/pkg/config"
	"github.com/jhoicas/Lubricantes-api/pkg/logger"
)

func main() {
	companyName := flag.String("company", "", "nombre de la empresa operadora")
	nit := flag.String("nit", "", "NIT de la empresa operadora")
	email := flag.String("email", "", "email del admin")
	password := flag.String("password", "", "password del admin (mínimo 8 caracteres)")
	name := flag.String("name", "Administrador", "nombre del admin")
	flag.Parse()

	if *companyName == "" || *nit == "" || *email == "" || len(*password) < 8 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), companyRepo, auth.JWTConfig{})

	company, err := companyUC.Create(ctx, dto.CreateCompanyRequest{Name: *companyName, NIT: *nit})
	if errors.Is(err, domain.ErrDuplicate) {
		existing, getErr := companyRepo.GetByNIT(ctx, *nit)
		if getErr != nil || existing == nil {
			log.Fatal().Err(getErr).Msg("buscar empresa existente")
		}
		company = &dto.CompanyResponse{ID: existing.ID, Name: existing.Name, NIT: existing.NIT}
	} else if err != nil {
		log.Fatal().Err(err).Msg("crear empresa")
	}

	user, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
		Email:     *email,
		Password:  *password,
		CompanyID: company.ID,
		Name:      *name,
		Role:      entity.RoleAdmin,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuario admin")
	}
	log.Info().Str("company_id", company.ID).Str("user_id", user.ID).Msg("admin creado")
}
