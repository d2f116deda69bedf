package catalog

import (
	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/places
func ListPlacesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places := []models.Place{}
		if err := db.WithContext(c.UserContext()).Order("place_id ASC").Find(&places).Error; err != nil {
			logError("ListPlacesHandler", "yerler listelenemedi", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero places")
		}
		return c.JSON(places)
	}
}

// POST /api/places
func CreatePlaceHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body models.Place
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		body.ID = trim(body.ID)
		if body.ID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ID place mancante")
		}

		if err := db.WithContext(c.UserContext()).Create(&body).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "ID place già esistente")
			}
			logError("CreatePlaceHandler", "yer oluşturulamadı", body.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella creazione place")
		}
		return c.JSON(body)
	}
}

// PUT /api/places  body: {"place_id": "WHS", ...}
func UpdatePlaceHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body models.Place
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		if trim(body.ID) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ID place mancante")
		}

		res := db.WithContext(c.UserContext()).Model(&models.Place{}).
			Where("place_id = ?", body.ID).
			Updates(map[string]any{"place_name": body.Name, "place_type": body.Type})
		if res.Error != nil {
			logError("UpdatePlaceHandler", "yer güncellenemedi", body.ID, res.Error)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'aggiornamento place")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Place non trovato")
		}
		return c.JSON(body)
	}
}

// DELETE /api/places?id=WHS
func DeletePlaceHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Query("id")
		if id == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ID mancante")
		}
		if err := db.WithContext(c.UserContext()).Delete(&models.Place{}, "place_id = ?", id).Error; err != nil {
			if database.IsForeignKeyViolation(err) {
				return fiber.NewError(fiber.StatusBadRequest, "Impossibile eliminare: place in uso")
			}
			logError("DeletePlaceHandler", "yer silinemedi", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella cancellazione place")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// GET /api/zones
func ListZonesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zones := []models.Zone{}
		if err := db.WithContext(c.UserContext()).Order("zone_id ASC").Find(&zones).Error; err != nil {
			logError("ListZonesHandler", "bölgeler listelenemedi", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero zones")
		}
		return c.JSON(zones)
	}
}

// POST /api/zones
func CreateZoneHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body models.Zone
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		body.ID = trim(body.ID)
		if body.ID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ID zone mancante")
		}

		if err := db.WithContext(c.UserContext()).Create(&body).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "ID zone già esistente")
			}
			logError("CreateZoneHandler", "bölge oluşturulamadı", body.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella creazione zone")
		}
		return c.JSON(body)
	}
}

// PUT /api/zones  body: {"zone_id": "A1", ...}
func UpdateZoneHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body models.Zone
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		if trim(body.ID) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ID zone mancante")
		}

		res := db.WithContext(c.UserContext()).Model(&models.Zone{}).
			Where("zone_id = ?", body.ID).
			Updates(map[string]any{"zone_name": body.Name, "zone_type": body.Type})
		if res.Error != nil {
			logError("UpdateZoneHandler", "bölge güncellenemedi", body.ID, res.Error)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'aggiornamento zone")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Zone non trovata")
		}
		return c.JSON(body)
	}
}

// DELETE /api/zones?id=A1
func DeleteZoneHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Query("id")
		if id == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ID mancante")
		}
		if err := db.WithContext(c.UserContext()).Delete(&models.Zone{}, "zone_id = ?", id).Error; err != nil {
			if database.IsForeignKeyViolation(err) {
				return fiber.NewError(fiber.StatusBadRequest, "Impossibile eliminare: zone in uso")
			}
			logError("DeleteZoneHandler", "bölge silinemedi", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella cancellazione zone")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

type ChecklistResponse struct {
	ID   uint   `gorm:"column:chk_id" json:"chk_id"`
	Code string `gorm:"column:chk_code" json:"chk_code"`
}

// GET /api/checklists?place=WHS
func ListChecklistsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.WithContext(c.UserContext()).Model(&models.Checklist{}).Select("chk_id", "chk_code")
		if place := c.Query("place"); place != "" {
			dbq = dbq.Where("chk_place = ?", place)
		}

		res := []ChecklistResponse{}
		if err := dbq.Order("chk_code ASC").Scan(&res).Error; err != nil {
			logError("ListChecklistsHandler", "checklist listelenemedi", c.Query("place"), err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero checklist")
		}
		return c.JSON(res)
	}
}
