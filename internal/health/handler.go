// Package health reports whether the API can reach its database.
package health

import (
	"time"

	"rfid-backoffice/internal/config"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type dbStatus struct {
	Time    time.Time
	Version string
}

// GET /api/health
func Handler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var st dbStatus
		err := db.WithContext(c.UserContext()).Raw("SELECT NOW() AS time, version() AS version").Scan(&st).Error
		if err != nil {
			config.LogError(config.GetLogger(), "health", "Handler", "veritabanı erişilemiyor", nil, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":   "error",
				"database": "disconnected",
				"error":    err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"status":    "ok",
			"database":  "connected",
			"timestamp": st.Time,
			"version":   st.Version,
		})
	}
}
