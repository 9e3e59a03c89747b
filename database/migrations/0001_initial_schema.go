// Package migrations registers the schema migrations in chronological
// order. Each migration is registered from an init func so importing the
// package is enough to make the full set available to the runner.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/migration"
	"github.com/shashiranjanraj/medicore/pkg/queue"
)

func init() {
	migration.Register("20240105000000_create_initial_schema", &CreateInitialSchema{})
}

// CreateInitialSchema creates every application table.
type CreateInitialSchema struct{}

func (m *CreateInitialSchema) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Service{},
		&models.Offer{},
		&models.BedAllotment{},
		&models.BloodUnit{},
		&models.Order{},
		&models.OrderNotification{},
		&models.OutboxEntry{},
		&queue.FailedJobRecord{},
	)
}

func (m *CreateInitialSchema) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		"failed_jobs",
		"outbox_entries",
		"order_notifications",
		"orders",
		"blood_units",
		"bed_allotments",
		"offers",
		"services",
		"departments",
		"users",
	)
}
