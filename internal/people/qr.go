package people

import (
	"errors"

	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/models"
	"rfid-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const codeRule = "required,alphanum,min=4,max=100"

const invalidCodeMessage = "Codice RFID non valido. Deve essere alfanumerico (4-100 caratteri)"

var errBadgeTaken = errors.New("badge already associated")

// GET /api/qr/check?code=0000001
func CheckHandler(db *gorm.DB, baseURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := normalizeCode(c.Query("code"))
		if err := validation.Var(code, codeRule); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":          invalidCodeMessage,
				"exists":         false,
				"hasAssociation": false,
			})
		}
		ctx := c.UserContext()

		var item *models.Item
		var it models.Item
		err := db.WithContext(ctx).Where("item_id = ?", code).Take(&it).Error
		switch {
		case err == nil:
			item = &it
		case !errors.Is(err, gorm.ErrRecordNotFound):
			logError("CheckHandler", "item okunamadı", code, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella verifica del codice QR")
		}

		var person *models.Person
		var p models.Person
		err = db.WithContext(ctx).Where("rfid_tag_id = ?", code).Take(&p).Error
		switch {
		case err == nil:
			person = &p
		case !errors.Is(err, gorm.ErrRecordNotFound):
			logError("CheckHandler", "kişi okunamadı", code, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella verifica del codice QR")
		}

		return c.JSON(fiber.Map{
			"exists":         item != nil,
			"hasAssociation": person != nil,
			"item":           item,
			"person":         person,
			"code":           code,
			"qr_url":         QRURL(baseURL, code),
		})
	}
}

// POST /api/qr/onboard
// Tek transaction: item yoksa oluştur, badge boştaysa kişiyi bağla.
func OnboardHandler(db *gorm.DB, baseURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body OnboardRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		body.normalize()
		if err := validation.Var(body.Code, codeRule); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, invalidCodeMessage)
		}
		if err := validation.Struct(body); err != nil {
			return validation.BadRequest("Dati persona non validi", err)
		}
		code := normalizeCode(body.Code)

		person := models.Person{
			Name:       body.Name,
			Role:       body.Role,
			Company:    body.Company,
			Department: body.Department,
			Image:      body.Image,
			RFIDTagID:  &code,
		}
		var existing models.Person

		err := db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Item{ID: code}).Error; err != nil {
				return err
			}

			err := tx.Select("people_id", "name").Where("rfid_tag_id = ?", code).Take(&existing).Error
			if err == nil {
				return errBadgeTaken
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return tx.Create(&person).Error
		})

		switch {
		case err == nil:
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"success": true,
				"person":  person,
				"qr_url":  QRURL(baseURL, code),
				"message": "Persona registrata con successo",
			})
		case errors.Is(err, errBadgeTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":          "Questo badge è già associato a: " + existing.Name,
				"existingPerson": fiber.Map{"people_id": existing.ID, "name": existing.Name},
			})
		case database.IsUniqueViolation(err):
			// Eşzamanlı onboard: unique index yakaladı
			return fiber.NewError(fiber.StatusConflict, "Questo badge è già associato")
		}
		logError("OnboardHandler", "onboard başarısız", code, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Errore durante la registrazione della persona")
	}
}
