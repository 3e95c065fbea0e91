// shelton-springs/config/database.go

package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		slog.Error("DB_URL environment variable is not set")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	err = db.AutoMigrate(
		&models.Member{},
		&models.Household{},
		&models.Fee{},
		&models.Fine{},
		&models.Payment{},
		&models.Notification{},
	)
	if err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("connected to database")
}
