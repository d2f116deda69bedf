package people

import (
	"errors"
	"io"
	"time"

	"rfid-backoffice/internal/config"
	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/listing"
	"rfid-backoffice/internal/models"
	"rfid-backoffice/internal/storage"
	"rfid-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var filterColumns = listing.Columns("", "name", "role", "company", "department")

func logError(funcName, context string, data any, err error) {
	config.LogError(config.GetLogger(), "people", funcName, context, data, err)
}

func personID(raw any) (uint, bool) {
	id, err := database.RefUint(raw)
	if err != nil || id == nil {
		return 0, false
	}
	return *id, true
}

// GET /api/people?page=1&limit=50&filter_name=ros
func ListPeopleHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Queries()
		page := listing.ParsePage(query)
		filters := listing.Filters(query, filterColumns)

		var total int64
		dbq := listing.Apply(db.WithContext(c.UserContext()).Model(&models.Person{}), filters)
		if err := dbq.Count(&total).Error; err != nil {
			logError("ListPeopleHandler", "kişi sayısı alınamadı", query, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero persone")
		}

		people := []models.Person{}
		err := listing.Apply(db.WithContext(c.UserContext()), filters).
			Order("people_id ASC").
			Limit(page.Limit).Offset(page.Offset()).
			Find(&people).Error
		if err != nil {
			logError("ListPeopleHandler", "kişiler listelenemedi", query, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero persone")
		}

		return c.JSON(fiber.Map{
			"people":     people,
			"pagination": listing.NewPagination(page, total),
		})
	}
}

// POST /api/people
func CreatePersonHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		body.normalize()
		if err := validation.Struct(body); err != nil {
			return validation.BadRequest("Nome richiesto (minimo 2 caratteri)", err)
		}

		p := models.Person{
			Name:       body.Name,
			Role:       body.Role,
			Company:    body.Company,
			Department: body.Department,
			Image:      body.Image,
		}
		if err := db.WithContext(c.UserContext()).Create(&p).Error; err != nil {
			logError("CreatePersonHandler", "kişi oluşturulamadı", body.Name, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella creazione persona")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PUT /api/people  body: {"people_id": 3, ...}
func UpdatePersonHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		id, ok := personID(body.PeopleID)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "ID persona mancante")
		}
		body.normalize()
		if err := validation.Struct(body); err != nil {
			return validation.BadRequest("Nome richiesto (minimo 2 caratteri)", err)
		}

		res := db.WithContext(c.UserContext()).Model(&models.Person{}).
			Where("people_id = ?", id).
			Updates(map[string]any{
				"name":       body.Name,
				"role":       body.Role,
				"company":    body.Company,
				"department": body.Department,
				"image":      body.Image,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			logError("UpdatePersonHandler", "kişi güncellenemedi", id, res.Error)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'aggiornamento persona")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Persona non trovata")
		}

		var p models.Person
		if err := db.WithContext(c.UserContext()).First(&p, "people_id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'aggiornamento persona")
		}
		return c.JSON(p)
	}
}

// DELETE /api/people?id=3  (fotoğraf da silinir)
func DeletePersonHandler(db *gorm.DB, store storage.ImageStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := personID(c.Query("id"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "ID mancante")
		}

		var p models.Person
		err := db.WithContext(c.UserContext()).First(&p, "people_id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Persona non trovata")
		}
		if err != nil {
			logError("DeletePersonHandler", "kişi okunamadı", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella cancellazione persona")
		}

		if err := db.WithContext(c.UserContext()).Delete(&models.Person{}, "people_id = ?", id).Error; err != nil {
			logError("DeletePersonHandler", "kişi silinemedi", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella cancellazione persona")
		}

		// Fotoğraf silinemezse kayıt yine silinmiş sayılır
		if p.Image != nil && store.Owns(*p.Image) {
			if err := store.Delete(c.UserContext(), *p.Image); err != nil {
				config.GetLogger().WithField("image", *p.Image).Warnf("fotoğraf silinemedi: %v", err)
			}
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/people/upload  multipart, alan adı "image"
func UploadImageHandler(store storage.ImageStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("image")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Nessun file caricato")
		}
		if fh.Size > maxUploadSize {
			return fiber.NewError(fiber.StatusBadRequest, "File troppo grande. Massimo 5MB")
		}

		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Nessun file caricato")
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Errore durante il caricamento dell'immagine")
		}
		if len(data) > maxUploadSize {
			return fiber.NewError(fiber.StatusBadRequest, "File troppo grande. Massimo 5MB")
		}

		out, contentType, ext, err := prepareImage(data)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Formato non valido. Usa JPG, PNG o WebP")
		}

		name := time.Now().Format("20060102") + "-" + uuid.NewString() + ext
		url, err := store.Put(c.UserContext(), name, out, contentType)
		if err != nil {
			logError("UploadImageHandler", "fotoğraf yüklenemedi", name, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore durante il caricamento dell'immagine")
		}

		return c.JSON(fiber.Map{
			"imagePath": url,
			"message":   "Immagine caricata con successo",
		})
	}
}

// DELETE /api/people/upload?url=...
func DeleteImageHandler(store storage.ImageStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url := c.Query("url")
		if url == "" {
			return fiber.NewError(fiber.StatusBadRequest, "URL immagine mancante")
		}
		if !store.Owns(url) {
			return fiber.NewError(fiber.StatusBadRequest, "URL non valido")
		}

		if err := store.Delete(c.UserContext(), url); err != nil {
			// Dosya zaten yoksa da başarılı dön
			config.GetLogger().WithField("url", url).Warnf("fotoğraf silinemedi: %v", err)
			return c.JSON(fiber.Map{"message": "Immagine cancellata o non trovata"})
		}
		return c.JSON(fiber.Map{"message": "Immagine cancellata con successo"})
	}
}
