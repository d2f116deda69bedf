package audit

import (
	"encoding/json"
	"fmt"

	"rfid-backoffice/internal/models"

	"gorm.io/gorm"
)

// Actor: işlemi yapan kullanıcı. JWT olmayan akışlarda sıfır değer kalır.
type Actor struct {
	UserID   uint
	UserName string
}

type LogOptions struct {
	Actor       Actor
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog: db bir transaction ise log da o transaction'a dahil olur.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
	log := models.AuditLog{
		UserID:      opts.Actor.UserID,
		UserName:    opts.Actor.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  toJSON(opts.Before),
		AfterData:   toJSON(opts.After),
	}

	if err := db.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

func toJSON(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
