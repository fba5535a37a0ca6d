package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/models"
	"github.com/shashiranjanraj/giftwheels/pkg/migration"
)

// Schema version 3 adds the contact inbox. Databases created at version 2
// pick it up on the next open without losing products or orders.
func init() {
	migration.Register("20260215000000_create_messages_table", &CreateMessagesTable{})
}

type CreateMessagesTable struct{}

func (m *CreateMessagesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ContactMessage{})
}

func (m *CreateMessagesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("messages")
}
