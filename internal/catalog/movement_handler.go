package catalog

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const recentMovementsLimit = 1000

// GET /api/movements  son 1000 hareket
func ListMovementsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows := []MovementRow{}
		if err := movementQuery(db.WithContext(c.UserContext())).Limit(recentMovementsLimit).Scan(&rows).Error; err != nil {
			logError("ListMovementsHandler", "hareketler alınamadı", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero movimenti")
		}
		return c.JSON(rows)
	}
}
