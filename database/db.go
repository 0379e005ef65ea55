package database

import (
	"fmt"

	"invoicedesk-backend/config"
	"invoicedesk-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the MySQL connection described by cfg.
func Connect(cfg *config.Config) error {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// Surfaces unique-index violations as gorm.ErrDuplicatedKey so the
		// store can report duplicate document numbers as validation errors.
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	DB = db
	return nil
}

// AutoMigrate applies (idempotent) schema migrations:
// - invoices table with the fixed column allow-list and the unique
//   document_number index
// - email log and idempotency key tables
func AutoMigrate() error {
	return DB.AutoMigrate(
		&models.Invoice{},
		&models.EmailLog{},
		&models.IdempotencyKey{},
	)
}
