package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/taller-pro/internal/application/auth"
	appledger "github.com/tu-usuario/taller-pro/internal/application/ledger"
	"github.com/tu-usuario/taller-pro/internal/application/orders"
	"github.com/tu-usuario/taller-pro/internal/application/ports"
	"github.com/tu-usuario/taller-pro/internal/application/sales"
	"github.com/tu-usuario/taller-pro/internal/application/usecase"
	infraai "github.com/tu-usuario/taller-pro/internal/infrastructure/ai"
	infrapdf "github.com/tu-usuario/taller-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/taller-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/taller-pro/internal/interfaces/http"
	"github.com/tu-usuario/taller-pro/pkg/config"
	"github.com/tu-usuario/taller-pro/pkg/logger"
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

	// Repositorios atados al pool: lecturas y CRUD simple. Las escrituras del
	// libro de lotes pasan por el TxRunner, que ata sus propios repos a la tx.
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	lotRepo := postgres.NewLotRepository(pool)
	allocRepo := postgres.NewAllocationRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Libro de lotes
	purchaseUC := appledger.NewPurchaseUseCase(txRunner, itemRepo, purchaseRepo)
	consumeUC := appledger.NewConsumeUseCase(txRunner, itemRepo)
	reverseUC := appledger.NewReverseUseCase(txRunner)
	stockUC := appledger.NewStockUseCase(txRunner, itemRepo, lotRepo)

	// Catálogo y terceros
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	itemUC := usecase.NewItemUseCase(itemRepo, lotRepo)
	clientUC := usecase.NewClientUseCase(clientRepo)
	vehicleUC := usecase.NewVehicleUseCase(vehicleRepo, clientRepo)

	// Documentos
	orderUC := orders.NewOrderUseCase(orderRepo, clientRepo, vehicleRepo, allocRepo)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	saleUC := sales.NewSaleUseCase(
		txRunner, consumeUC,
		itemRepo, clientRepo, companyRepo, saleRepo, allocRepo,
		pdfGenerator,
	)

	// IA: proveedor seleccionable por configuración
	var llmSvc ports.LLMService
	switch cfg.AI.Provider {
	case "anthropic":
		llmSvc = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	default:
		llmSvc = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	}
	aiUC := usecase.NewAIUseCase(llmSvc)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
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

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:  companyUC,
		ItemUC:     itemUC,
		ClientUC:   clientUC,
		VehicleUC:  vehicleUC,
		PurchaseUC: purchaseUC,
		ConsumeUC:  consumeUC,
		ReverseUC:  reverseUC,
		StockUC:    stockUC,
		OrderUC:    orderUC,
		SaleUC:     saleUC,
		AIUC:       aiUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
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
