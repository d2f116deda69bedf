package inventory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"rfid-backoffice/internal/audit"
	"rfid-backoffice/internal/auth"
	"rfid-backoffice/internal/config"
	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/models"
	"rfid-backoffice/internal/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Sessions is what the handlers need from Service.
type Sessions interface {
	List(ctx context.Context) ([]Session, error)
	Get(ctx context.Context, id uint) (*Session, error)
	Create(ctx context.Context, actor audit.Actor, values map[string]any) (*models.Inventory, error)
	Update(ctx context.Context, actor audit.Actor, id uint, values map[string]any) (*models.Inventory, error)
	Delete(ctx context.Context, actor audit.Actor, id uint) error
	Close(ctx context.Context, actor audit.Actor, req reconcile.Request) (*reconcile.Result, error)
	ListItems(ctx context.Context, sessionID uint) ([]LedgerRow, error)
	ListAggregated(ctx context.Context, sessionID uint) ([]AggregateRow, error)
	ExportAggregated(ctx context.Context, sessionID uint, w io.Writer) error
}

type CloseRequest struct {
	InvID           any  `json:"inv_id"`
	CreateMovements bool `json:"create_movements"`
	UpdateItems     bool `json:"update_items"`
}

func logError(funcName, context string, data any, err error) {
	config.LogError(config.GetLogger(), "inventory", funcName, context, data, err)
}

func sessionID(raw any) (uint, bool) {
	id, err := database.RefUint(raw)
	if err != nil || id == nil {
		return 0, false
	}
	return *id, true
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, ok := sessionID(c.Params("id"))
	if !ok {
		return 0, fiber.NewError(fiber.StatusBadRequest, "ID Inventario mancante")
	}
	return id, nil
}

// GET /api/inventories?id=12
func ListInventoriesHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := c.Query("id"); raw != "" {
			id, ok := sessionID(raw)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "ID Inventario non valido")
			}
			s, err := svc.Get(c.UserContext(), id)
			if errors.Is(err, ErrNotFound) {
				return c.JSON([]Session{})
			}
			if err != nil {
				logError("ListInventoriesHandler", "inventory okunamadı", id, err)
				return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero inventari")
			}
			return c.JSON([]Session{*s})
		}

		list, err := svc.List(c.UserContext())
		if err != nil {
			logError("ListInventoriesHandler", "inventory listesi okunamadı", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero inventari")
		}
		if list == nil {
			list = []Session{}
		}
		return c.JSON(list)
	}
}

// POST /api/inventories
func CreateInventoryHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]any
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}

		inv, err := svc.Create(c.UserContext(), auth.ActorFrom(c), body)
		switch {
		case err == nil:
			return c.Status(fiber.StatusCreated).JSON(inv)
		case errors.Is(err, ErrNameRequired):
			return fiber.NewError(fiber.StatusBadRequest, "Nome inventario obbligatorio")
		case errors.Is(err, ErrInvalidValue):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		logError("CreateInventoryHandler", "inventory oluşturulamadı", body, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Errore nella creazione inventario")
	}
}

// PUT /api/inventories  body: {"inv_id": 12, ...kolonlar}
func UpdateInventoryHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]any
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		id, ok := sessionID(body["inv_id"])
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "ID Inventario mancante")
		}
		delete(body, "inv_id")

		inv, err := svc.Update(c.UserContext(), auth.ActorFrom(c), id, body)
		switch {
		case err == nil:
			return c.JSON(inv)
		case errors.Is(err, ErrNoFieldsToUpdate):
			return fiber.NewError(fiber.StatusBadRequest, "Nessun dato da aggiornare")
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Inventario non trovato")
		case errors.Is(err, ErrNameRequired):
			return fiber.NewError(fiber.StatusBadRequest, "Nome inventario obbligatorio")
		case errors.Is(err, ErrInvalidValue):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		logError("UpdateInventoryHandler", "inventory güncellenemedi", id, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'aggiornamento inventario")
	}
}

// DELETE /api/inventories?id=12
func DeleteInventoryHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := sessionID(c.Query("id"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "ID mancante")
		}

		err := svc.Delete(c.UserContext(), auth.ActorFrom(c), id)
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Inventario non trovato")
		}
		if err != nil {
			logError("DeleteInventoryHandler", "inventory silinemedi", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella cancellazione inventario")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// POST /api/inventories/close
func CloseInventoryHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CloseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		id, ok := sessionID(body.InvID)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "ID Inventario mancante")
		}

		res, err := svc.Close(c.UserContext(), auth.ActorFrom(c), reconcile.Request{
			SessionID:       id,
			CreateMovements: body.CreateMovements,
			UpdateItems:     body.UpdateItems,
		})
		switch {
		case err == nil:
			config.GetLogger().WithFields(logrus.Fields{
				"inv_id":          id,
				"found":           res.Found,
				"lost":            res.Lost,
				"movements_added": res.MovementsAdded,
			}).Info("inventory kapatıldı")
			return c.JSON(fiber.Map{"success": true})
		case errors.Is(err, reconcile.ErrMissingSessionID):
			return fiber.NewError(fiber.StatusBadRequest, "ID Inventario mancante")
		case errors.Is(err, reconcile.ErrSessionNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Inventario non trovato")
		case errors.Is(err, reconcile.ErrAlreadyClosed):
			return fiber.NewError(fiber.StatusConflict, "Inventario già chiuso")
		}
		logError("CloseInventoryHandler", "inventory kapatılamadı", id, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Errore durante la chiusura dell'inventario")
	}
}

// GET /api/inventories/:id/items
func ListInventoryItemsHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		rows, err := svc.ListItems(c.UserContext(), id)
		if err != nil {
			logError("ListInventoryItemsHandler", "ledger okunamadı", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero items inventario")
		}
		if rows == nil {
			rows = []LedgerRow{}
		}
		return c.JSON(rows)
	}
}

// GET /api/inventories/:id/items/aggregated
func ListAggregatedItemsHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		rows, err := svc.ListAggregated(c.UserContext(), id)
		if err != nil {
			logError("ListAggregatedItemsHandler", "ledger özeti okunamadı", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero items aggregati")
		}
		if rows == nil {
			rows = []AggregateRow{}
		}
		return c.JSON(rows)
	}
}

// GET /api/inventories/:id/items/aggregated/export
func ExportAggregatedItemsHandler(svc Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := svc.ExportAggregated(c.UserContext(), id, &buf); err != nil {
			logError("ExportAggregatedItemsHandler", "excel oluşturulamadı", id, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'esportazione inventario")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="inventario-%s.xlsx"`, strconv.FormatUint(uint64(id), 10)))
		return c.Send(buf.Bytes())
	}
}
