package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/auth"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/billing"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/inventory"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/reconciliation"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/application/usecase"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/infrastructure/cache"
	infrapdf "github.com/Almanzar001/FacturaSaasfn-sub001/internal/infrastructure/pdf"
	"github.com/Almanzar001/FacturaSaasfn-sub001/internal/infrastructure/postgres"
	httpRouter "github.com/Almanzar001/FacturaSaasfn-sub001/internal/interfaces/http"
	"github.com/Almanzar001/FacturaSaasfn-sub001/pkg/config"
	"github.com/Almanzar001/FacturaSaasfn-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	organizationRepo := postgres.NewOrganizationRepository(pool)
	settingsRepo := postgres.NewOrganizationSettingsRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	accessProber := postgres.NewAccessProber(pool)

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, branchRepo)
	inventoryQueryUC := inventory.NewQueryUseCase(stockRepo, movementRepo, branchRepo)

	createInvoiceUC := billing.NewCreateInvoiceUseCase(
		txRunner, registerMovementUC,
		clientRepo, branchRepo, productRepo, invoiceRepo, settingsRepo,
	)
	quoteUC := billing.NewQuoteUseCase(quoteRepo, clientRepo, branchRepo, productRepo, createInvoiceUC)

	// PDF: representación imprimible de la factura
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(
		invoiceRepo, organizationRepo, clientRepo, productRepo, pdfGenerator,
	)

	// Reconciliación de inventario: auditoría, corrección y diagnóstico
	auditUC := reconciliation.NewAuditUseCase(productRepo, branchRepo, stockRepo, movementRepo, txRunner, log)
	recalculateUC := reconciliation.NewRecalculateUseCase(productRepo, branchRepo, stockRepo, movementRepo, txRunner, log)
	diagnosticsUC := reconciliation.NewDiagnosticsUseCase(accessProber, settingsRepo, userRepo, log)

	// Redis es opcional: sin REDIS_ADDR la auditoría se calcula siempre en vivo.
	auditCache := cache.NewAuditCache(
		cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLMinutes)*time.Minute,
	)
	defer auditCache.Close()
	if err := auditCache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis no disponible, caché de auditoría desactivada")
	}

	organizationUC := usecase.NewOrganizationUseCase(organizationRepo, settingsRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo)

	authUC := auth.NewAuthUseCase(userRepo, organizationRepo, settingsRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FacturaSaaS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		OrganizationUC:   organizationUC,
		BranchUC:         branchUC,
		UserUC:           userUC,
		ClientUC:         clientUC,
		ProductUC:        productUC,
		ExpenseUC:        expenseUC,
		RegisterMovement: registerMovementUC,
		InventoryQuery:   inventoryQueryUC,
		CreateInvoice:    createInvoiceUC,
		InvoicePDF:       invoicePDFUC,
		QuoteUC:          quoteUC,
		AuditUC:          auditUC,
		RecalculateUC:    recalculateUC,
		DiagnosticsUC:    diagnosticsUC,
		AuditCache:       auditCache,
		Log:              log,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
