package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/taller-pro/internal/application/auth"
	appledger "github.com/tu-usuario/taller-pro/internal/application/ledger"
	"github.com/tu-usuario/taller-pro/internal/application/orders"
	"github.com/tu-usuario/taller-pro/internal/application/sales"
	"github.com/tu-usuario/taller-pro/internal/application/usecase"
	"github.com/tu-usuario/taller-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *usecase.CompanyUseCase
	ItemUC     *usecase.ItemUseCase
	ClientUC   *usecase.ClientUseCase
	VehicleUC  *usecase.VehicleUseCase
	PurchaseUC *appledger.PurchaseUseCase
	ConsumeUC  *appledger.ConsumeUseCase
	ReverseUC  *appledger.ReverseUseCase
	StockUC    *appledger.StockUseCase
	OrderUC    *orders.OrderUseCase
	SaleUC     *sales.SaleUseCase
	AIUC       *usecase.AIUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solo admin puede borrar documentos o ítems
	adminOnly := RequireRole(entity.RoleAdmin)

	// Items: catálogo de repuestos y servicios (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Delete)

	// Ledger: consumo FIFO, reversión, stock e importación inicial (protegido)
	ledgerHandler := NewLedgerHandler(deps.ConsumeUC, deps.ReverseUC, deps.StockUC)
	items.Get("/:item_id/stock", ledgerHandler.CurrentStock)
	ledgerGroup := protected.Group("/ledger")
	ledgerGroup.Post("/consume", ledgerHandler.Consume)
	ledgerGroup.Post("/reverse", ledgerHandler.Reverse)
	ledgerGroup.Post("/initial-import", adminOnly, ledgerHandler.InitialImport)

	// Clients (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.VehicleUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Get("/:id/vehicles", clientHandler.ListVehicles)

	// Vehicles (protegido)
	vehicles := protected.Group("/vehicles")
	vehicleHandler := NewVehicleHandler(deps.VehicleUC, deps.OrderUC)
	vehicles.Post("/", vehicleHandler.Create)
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Get("/:id", vehicleHandler.GetByID)
	vehicles.Get("/:id/orders", vehicleHandler.ListOrders)

	// Purchases: recepción de mercancía, crea lotes (protegido)
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Receive)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Delete("/:id", adminOnly, purchaseHandler.Delete)

	// Repair orders (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id", orderHandler.Update)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/pdf", saleHandler.DownloadPDF)

	// AI (protegido)
	aiGroup := protected.Group("/ai")
	aiHandler := NewAIHandler(deps.AIUC)
	aiGroup.Post("/extract-invoice", aiHandler.ExtractInvoice)
	aiGroup.Post("/suggest-diagnosis", aiHandler.SuggestDiagnosis)
}
