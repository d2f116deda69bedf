package database

import (
	"time"

	"rfid-backoffice/internal/config"
	"rfid-backoffice/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	log := config.GetLogger()

	var err error
	DB, err = Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if sqlDB, derr := DB.DB(); derr == nil {
		if cfg.DBMaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		}
		if cfg.DBMaxIdleConns >= 0 {
			sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		}
		if cfg.DBConnMaxLifetimeS > 0 {
			sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeS) * time.Second)
		}
		if cfg.DBConnMaxIdleTimeS > 0 {
			sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeS) * time.Second)
		}
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Open connects without touching the global handle.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.New(config.GetLogger(), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Place{},
		&models.Zone{},
		&models.Checklist{},
		&models.Product{},
		&models.ProductLabel{},
		&models.Item{},
		&models.Movement{},
		&models.Person{},
		&models.Inventory{},
		&models.InventoryItem{},
		&models.AuditLog{},
	)
}
