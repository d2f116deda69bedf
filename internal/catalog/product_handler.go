package catalog

import (
	"regexp"

	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/listing"
	"rfid-backoffice/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// fld01..fld10 ve fldd01..fldd05 serbest alanları
var descriptiveColumn = regexp.MustCompile(`^(fld(0[1-9]|10)|fldd0[1-5])$`)

var productFilterColumns = listing.Columns("",
	"product_id",
	"fld01", "fld02", "fld03", "fld04", "fld05", "fld06", "fld07", "fld08", "fld09", "fld10",
	"fldd01", "fldd02", "fldd03", "fldd04", "fldd05",
)

// descriptiveValues keeps only fld/fldd keys; blanks become NULL.
func descriptiveValues(body map[string]any) (map[string]any, error) {
	out := map[string]any{}
	for k, v := range body {
		if !descriptiveColumn.MatchString(k) {
			continue
		}
		switch t := v.(type) {
		case nil, string, float64, bool:
			out[k] = database.RefString(t)
		default:
			return nil, fiber.NewError(fiber.StatusBadRequest, "Valore non valido per "+k)
		}
	}
	return out, nil
}

// GET /api/products?page=1&limit=50&filter_fld01=...
func ListProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Queries()
		page := listing.ParsePage(query)
		filters := listing.Filters(query, productFilterColumns)

		var total int64
		if err := listing.Apply(db.WithContext(c.UserContext()).Model(&models.Product{}), filters).Count(&total).Error; err != nil {
			logError("ListProductsHandler", "ürün sayısı alınamadı", query, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero prodotti")
		}

		products := []models.Product{}
		err := listing.Apply(db.WithContext(c.UserContext()), filters).
			Order("product_id ASC").
			Limit(page.Limit).Offset(page.Offset()).
			Find(&products).Error
		if err != nil {
			logError("ListProductsHandler", "ürünler listelenemedi", query, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero prodotti")
		}

		return c.JSON(fiber.Map{
			"products":   products,
			"pagination": listing.NewPagination(page, total),
		})
	}
}

// POST /api/products
func CreateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]any
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		values, err := descriptiveValues(body)
		if err != nil {
			return err
		}
		id := database.RefString(body["product_id"])
		if id == nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID Prodotto mancante")
		}
		values["product_id"] = *id

		if err := db.WithContext(c.UserContext()).Model(&models.Product{}).Create(values).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "ID Prodotto già esistente")
			}
			logError("CreateProductHandler", "ürün oluşturulamadı", *id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella creazione prodotto")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product_id": *id})
	}
}

// PUT /api/products  body: {"product_id": "P1", "fld01": ...}
func UpdateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]any
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		id := database.RefString(body["product_id"])
		if id == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Product ID mancante")
		}
		values, err := descriptiveValues(body)
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Nessun dato da aggiornare")
		}

		res := db.WithContext(c.UserContext()).Model(&models.Product{}).Where("product_id = ?", *id).Updates(values)
		if res.Error != nil {
			logError("UpdateProductHandler", "ürün güncellenemedi", *id, res.Error)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'aggiornamento prodotto")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Prodotto non trovato")
		}

		var p models.Product
		if err := db.WithContext(c.UserContext()).First(&p, "product_id = ?", *id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'aggiornamento prodotto")
		}
		return c.JSON(p)
	}
}

// DELETE /api/products?id=P1  (bağlı item varken silinmez)
func DeleteProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Query("id")
		if id == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ID mancante")
		}

		var linked int64
		if err := db.WithContext(c.UserContext()).Model(&models.Item{}).Where("item_product_id = ?", id).Count(&linked).Error; err != nil {
			logError("DeleteProductHandler", "bağlı item sayılamadı", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella cancellazione prodotto")
		}
		if linked > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Impossibile eliminare: esistono items collegati a questo prodotto.")
		}

		if err := db.WithContext(c.UserContext()).Delete(&models.Product{}, "product_id = ?", id).Error; err != nil {
			if database.IsForeignKeyViolation(err) {
				return fiber.NewError(fiber.StatusBadRequest, "Impossibile eliminare: esistono items collegati a questo prodotto.")
			}
			logError("DeleteProductHandler", "ürün silinemedi", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella cancellazione prodotto")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

type LabelResponse struct {
	Field       string `json:"pr_fld"`
	Label       string `json:"pr_lab"`
	Description string `json:"pr_des"`
}

// GET /api/products/labels
func ListProductLabelsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var labels []models.ProductLabel
		if err := db.WithContext(c.UserContext()).Order("field_name").Find(&labels).Error; err != nil {
			logError("ListProductLabelsHandler", "etiketler listelenemedi", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero labels prodotti")
		}

		res := make([]LabelResponse, 0, len(labels))
		for _, l := range labels {
			res = append(res, LabelResponse{Field: l.FieldName, Label: l.LabelText, Description: l.LabelText})
		}
		return c.JSON(res)
	}
}
