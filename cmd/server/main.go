package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"rfid-backoffice/internal/audit"
	"rfid-backoffice/internal/auth"
	"rfid-backoffice/internal/catalog"
	"rfid-backoffice/internal/config"
	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/health"
	"rfid-backoffice/internal/inventory"
	"rfid-backoffice/internal/people"
	"rfid-backoffice/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
)

// Fotoğraf yüklemesi 5MB, multipart zarfı için pay bırakılır.
const bodyLimit = 8 << 20

func main() {
	cfg := config.Load()
	config.ApplyLogLevel(cfg.LogLevel)
	log := config.GetLogger()

	database.Init(cfg)
	db := database.DB

	images, err := storage.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Fotoğraf deposu açılamadı: %v", err)
	}
	if c, ok := images.(io.Closer); ok {
		defer c.Close()
	}

	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.WithFields(logrus.Fields{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": c.Locals(requestid.ConfigDefault.ContextKey),
			}).WithError(err).Error("Beklenmeyen sunucu hatası")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Errore interno del server",
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	if cfg.StorageDriver == "local" {
		app.Static(cfg.ImagePublicURL, cfg.ImagePath)
	}

	api := app.Group("/api")

	// Public
	api.Post("/auth/login", auth.LoginHandler(cfg, db))
	api.Get("/health", health.Handler(db))

	// QR badge sayfası login olmadan açılır
	api.Get("/qr/check", people.CheckHandler(db, cfg.BaseURL))
	api.Post("/qr/onboard", people.OnboardHandler(db, cfg.BaseURL))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Inventory oturumları
	sessions := inventory.NewService(db)
	protected.Get("/inventories", inventory.ListInventoriesHandler(sessions))
	protected.Post("/inventories", inventory.CreateInventoryHandler(sessions))
	protected.Put("/inventories", inventory.UpdateInventoryHandler(sessions))
	protected.Delete("/inventories", inventory.DeleteInventoryHandler(sessions))
	protected.Post("/inventories/close", inventory.CloseInventoryHandler(sessions))
	protected.Get("/inventories/:id/items", inventory.ListInventoryItemsHandler(sessions))
	protected.Get("/inventories/:id/items/aggregated", inventory.ListAggregatedItemsHandler(sessions))
	protected.Get("/inventories/:id/items/aggregated/export", inventory.ExportAggregatedItemsHandler(sessions))

	// Yerler, bölgeler, checklist
	protected.Get("/places", catalog.ListPlacesHandler(db))
	protected.Post("/places", catalog.CreatePlaceHandler(db))
	protected.Put("/places", catalog.UpdatePlaceHandler(db))
	protected.Delete("/places", catalog.DeletePlaceHandler(db))
	protected.Get("/zones", catalog.ListZonesHandler(db))
	protected.Post("/zones", catalog.CreateZoneHandler(db))
	protected.Put("/zones", catalog.UpdateZoneHandler(db))
	protected.Delete("/zones", catalog.DeleteZoneHandler(db))
	protected.Get("/checklists", catalog.ListChecklistsHandler(db))

	// Ürünler
	protected.Get("/products/labels", catalog.ListProductLabelsHandler(db))
	protected.Get("/products", catalog.ListProductsHandler(db))
	protected.Post("/products", catalog.CreateProductHandler(db))
	protected.Put("/products", catalog.UpdateProductHandler(db))
	protected.Delete("/products", catalog.DeleteProductHandler(db))

	// Etiketler ve hareketler
	protected.Get("/items", catalog.ListItemsHandler(db))
	protected.Delete("/items", catalog.DeleteItemHandler(db))
	protected.Get("/items/:id/movements", catalog.ItemMovementsHandler(db))
	protected.Get("/movements", catalog.ListMovementsHandler(db))

	// Kişiler
	protected.Get("/people", people.ListPeopleHandler(db))
	protected.Post("/people", people.CreatePersonHandler(db))
	protected.Put("/people", people.UpdatePersonHandler(db))
	protected.Delete("/people", people.DeletePersonHandler(db, images))
	protected.Post("/people/upload", people.UploadImageHandler(images))
	protected.Delete("/people/upload", people.DeleteImageHandler(images))

	// Kullanıcılar
	protected.Get("/users", catalog.ListUsersHandler(db))
	protected.Post("/users", catalog.CreateUserHandler(db))
	protected.Put("/users", catalog.UpdateUserHandler(db))
	protected.Delete("/users", catalog.DeleteUserHandler(db))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	log.Info("Server çalışıyor port: ", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
