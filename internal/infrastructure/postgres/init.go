package postgres

import (
	"log"

	"github.com/dolpagu/dispute-service/internal/config"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.DisputeConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DisputeDB.Dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	// SQL migrations are the source of truth when configured; AutoMigrate
	// covers local development.
	if cfg.DisputeDB.MigrationsPath == "" {
		db.AutoMigrate(&models.DisputeModel{}, &models.DisputeMessageModel{})
	}

	return db
}
