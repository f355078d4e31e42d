package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Lubricantes-api/internal/application/auth"
	"github.com/jhoicas/Lubricantes-api/internal/application/pricing"
	"github.com/jhoicas/Lubricantes-api/internal/application/usecase"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	CompanyUC        *usecase.CompanyUseCase
	UserUC           *usecase.UserUseCase
	ProductUC        *usecase.ProductUseCase
	CompanyProductUC *usecase.CompanyProductUseCase
	AuditUC          *usecase.AuditUseCase
	ScheduleUC       *pricing.ScheduleUseCase
	Applier          BatchApplier
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authenticated := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth: login público, registro solo admin
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", authenticated, adminOnly, authHandler.Register)

	companyProductHandler := NewCompanyProductHandler(deps.CompanyProductUC)

	// Catálogo del comprador (precios de su propia empresa)
	api.Get("/catalog", authenticated,
		RequireRole(entity.RoleAdmin, entity.RoleComprador, entity.RoleAprobador),
		RequireActiveCompany(deps.CompanyUC),
		companyProductHandler.Catalog)

	// Back office
	admin := api.Group("/admin", authenticated, adminOnly)

	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.UserUC, deps.CompanyProductUC)
	admin.Get("/companies", companyHandler.List)
	admin.Post("/companies", companyHandler.Create)
	admin.Get("/companies/:id", companyHandler.GetByID)
	admin.Put("/companies/:id", companyHandler.Update)
	admin.Get("/companies/:id/users", companyHandler.ListUsers)
	admin.Get("/companies/:id/products", companyHandler.ListProducts)

	productHandler := NewProductHandler(deps.ProductUC)
	admin.Get("/products", productHandler.List)
	admin.Post("/products", productHandler.Create)
	admin.Get("/products/:id", productHandler.GetByID)
	admin.Put("/products/:id", productHandler.Update)

	admin.Post("/company-products", companyProductHandler.Enable)
	admin.Put("/company-products/:id/price", companyProductHandler.UpdatePrice)

	pricingHandler := NewPricingHandler(deps.ScheduleUC, deps.Applier)
	admin.Get("/price-schedules", pricingHandler.ListSchedules)
	admin.Post("/price-schedules", pricingHandler.CreateSchedule)
	admin.Post("/price-schedules/apply", pricingHandler.Apply)
	admin.Delete("/price-schedules/:id", pricingHandler.CancelSchedule)

	auditHandler := NewAuditHandler(deps.AuditUC)
	admin.Get("/audit-logs", auditHandler.List)
}
