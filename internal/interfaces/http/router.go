package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/auth"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/billing"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/inventory"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/reconciliation"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/usecase"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/domain/entity"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/infrastructure/cache"
	"github.com/Almanzar001/FacturaSaasfn-sub001/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	OrganizationUC   *usecase.OrganizationUseCase
	BranchUC         *usecase.BranchUseCase
	UserUC           *usecase.UserUseCase
	ClientUC         *usecase.ClientUseCase
	ProductUC        *usecase.ProductUseCase
	ExpenseUC        *usecase.ExpenseUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	InventoryQuery   *inventory.QueryUseCase
	CreateInvoice    *billing.CreateInvoiceUseCase
	InvoicePDF       *billing.PDFUseCase
	QuoteUC          *billing.QuoteUseCase
	AuditUC          *reconciliation.AuditUseCase
	RecalculateUC    *reconciliation.RecalculateUseCase
	DiagnosticsUC    *reconciliation.DiagnosticsUseCase
	AuditCache       *cache.AuditCache
	Log              *logger.Logger
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Organization (protegido; settings solo admin)
	organizations := protected.Group("/organization")
	organizationHandler := NewOrganizationHandler(deps.OrganizationUC)
	organizations.Get("/", organizationHandler.Get)
	organizations.Put("/", RequireRole(entity.RoleAdmin), organizationHandler.Update)
	organizations.Get("/settings", organizationHandler.GetSettings)
	organizations.Put("/settings", RequireRole(entity.RoleAdmin), organizationHandler.UpdateSettings)

	// Branches (protegido)
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", RequireRole(entity.RoleAdmin, entity.RoleGerente), branchHandler.Create)
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleGerente), branchHandler.Update)
	branches.Delete("/:id", RequireRole(entity.RoleAdmin), branchHandler.Delete)

	// Users (protegido, solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleGerente), clientHandler.Delete)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleGerente), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleGerente), productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.InventoryQuery)
	invGroup.Post("/movements", RequireRole(entity.RoleAdmin, entity.RoleGerente), inventoryHandler.RegisterMovement)
	invGroup.Get("/stock/:branchId", inventoryHandler.ListStockByBranch)
	invGroup.Get("/stock/:branchId/:productId", inventoryHandler.GetStock)
	invGroup.Get("/movements/:branchId", inventoryHandler.ListMovements)
	invGroup.Get("/movements/:branchId/:productId/history", inventoryHandler.ListMovementHistory)

	// Reconciliación de inventario (protegido, admin y gerente)
	reconGroup := invGroup.Group("/reconciliation", RequireRole(entity.RoleAdmin, entity.RoleGerente))
	reconciliationHandler := NewReconciliationHandler(deps.AuditUC, deps.RecalculateUC, deps.DiagnosticsUC, deps.AuditCache, deps.Log)
	reconGroup.Get("/audit", reconciliationHandler.Audit)
	reconGroup.Post("/fix", reconciliationHandler.Fix)
	reconGroup.Post("/recalculate", reconciliationHandler.Recalculate)
	reconGroup.Get("/diagnostics", reconciliationHandler.Diagnostics)
	reconGroup.Get("/diagnostics/settings", reconciliationHandler.SettingsCheck)
	reconGroup.Get("/diagnostics/permissions", reconciliationHandler.PermissionsCheck)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Quotes (protegido)
	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Patch("/:id/status", quoteHandler.UpdateStatus)
	quotes.Post("/:id/convert", quoteHandler.Convert)

	// Expenses (protegido)
	expenses := protected.Group("/expenses")
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expenseHandler.List)
	expenses.Get("/:id", expenseHandler.GetByID)
	expenses.Put("/:id", expenseHandler.Update)
	expenses.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleGerente), expenseHandler.Delete)
}
