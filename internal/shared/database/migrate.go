package database

import (
	"dently/internal/calendar"
	"dently/internal/catalog"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Service{},
		&calendar.Event{},
	)
}
