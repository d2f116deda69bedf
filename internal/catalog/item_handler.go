package catalog

import (
	"time"

	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/listing"
	"rfid-backoffice/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var itemFilterColumns = append(
	listing.Columns("i", "item_id", "item_product_id", "date_creation", "date_lastseen", "place_last", "zone_last"),
	listing.Columns("p", "fld01", "fld02", "fld03", "fldd01")...,
)

// ItemRow: item ve ürünün ilk açıklama alanları
type ItemRow struct {
	models.Item
	Fld01  *string `json:"fld01"`
	Fld02  *string `json:"fld02"`
	Fld03  *string `json:"fld03"`
	Fldd01 *string `json:"fldd01"`
}

// GET /api/items?page=1&limit=50&filter_place_last=WHS
// GET /api/items?product_id=P1  (sayfalama olmadan düz liste)
func ListItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if productID := c.Query("product_id"); productID != "" {
			items := []models.Item{}
			if err := db.WithContext(c.UserContext()).Where("item_product_id = ?", productID).Find(&items).Error; err != nil {
				logError("ListItemsHandler", "ürün itemları listelenemedi", productID, err)
				return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero items")
			}
			return c.JSON(items)
		}

		query := c.Queries()
		page := listing.ParsePage(query)
		filters := listing.Filters(query, itemFilterColumns)

		base := func() *gorm.DB {
			return listing.Apply(db.WithContext(c.UserContext()).
				Table(`"Items" AS i`).
				Joins(`LEFT JOIN "Products" AS p ON i.item_product_id = p.product_id`), filters)
		}

		var total int64
		if err := base().Count(&total).Error; err != nil {
			logError("ListItemsHandler", "item sayısı alınamadı", query, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero items")
		}

		rows := []ItemRow{}
		err := base().
			Select("i.*, p.fld01, p.fld02, p.fld03, p.fldd01").
			Order("i.date_creation DESC").
			Limit(page.Limit).Offset(page.Offset()).
			Scan(&rows).Error
		if err != nil {
			logError("ListItemsHandler", "itemlar listelenemedi", query, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero items")
		}

		return c.JSON(fiber.Map{
			"items":      rows,
			"pagination": listing.NewPagination(page, total),
		})
	}
}

// DELETE /api/items?id=EPC  hareketler ve item tek transaction'da silinir
func DeleteItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Query("id")
		if id == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ID mancante")
		}

		err := db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("mov_epc = ?", id).Delete(&models.Movement{}).Error; err != nil {
				return err
			}
			return tx.Where("item_id = ?", id).Delete(&models.Item{}).Error
		})
		if database.IsForeignKeyViolation(err) {
			return fiber.NewError(fiber.StatusBadRequest, "Impossibile eliminare: item presente in un inventario")
		}
		if err != nil {
			logError("DeleteItemHandler", "item silinemedi", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella cancellazione item")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// MovementRow: hedef yer ve bölge isimleriyle hareket kaydı
type MovementRow struct {
	EPC       string              `gorm:"column:mov_epc" json:"mov_epc,omitempty"`
	Place     *string             `gorm:"column:Place" json:"Place"`
	Zone      *string             `gorm:"column:Zone" json:"Zone"`
	Timestamp time.Time           `gorm:"column:mov_timestamp" json:"mov_timestamp"`
	User      *string             `gorm:"column:mov_user" json:"mov_user"`
	Ref       *string             `gorm:"column:mov_ref" json:"mov_ref"`
	ReadCount *int                `gorm:"column:mov_readcount" json:"mov_readcount"`
	RSSIAvg   decimal.NullDecimal `gorm:"column:mov_rssiavg" json:"mov_rssiavg"`
}

const movementColumns = `m.mov_epc, p.place_name AS "Place", z.zone_name AS "Zone", m.mov_timestamp,
	m.mov_user, m.mov_ref, m.mov_readscount AS mov_readcount, m.mov_rssiavg`

func movementQuery(db *gorm.DB) *gorm.DB {
	return db.Table(`"Movements" AS m`).
		Select(movementColumns).
		Joins(`LEFT JOIN "Places" AS p ON m.mov_dest_place = p.place_id`).
		Joins(`LEFT JOIN "Zones" AS z ON m.mov_dest_zone = z.zone_id`).
		Order("m.mov_timestamp DESC")
}

// GET /api/items/:id/movements
func ItemMovementsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		rows := []MovementRow{}
		if err := movementQuery(db.WithContext(c.UserContext())).Where("m.mov_epc = ?", id).Scan(&rows).Error; err != nil {
			logError("ItemMovementsHandler", "hareketler alınamadı", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero movimenti")
		}
		for i := range rows {
			rows[i].EPC = ""
		}
		return c.JSON(rows)
	}
}
