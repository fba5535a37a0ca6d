// Package testkit holds helpers shared by the store's tests.
package testkit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/app/models"
	_ "github.com/shashiranjanraj/giftwheels/database/migrations"
	"github.com/shashiranjanraj/giftwheels/pkg/database"
	"github.com/shashiranjanraj/giftwheels/pkg/migration"
)

// DSN returns a SQLite DSN for a fresh file under t.TempDir(), configured the
// same way as the production default.
func DSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store.db") + "?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
}

// NewDB opens a migrated, empty SQLite database that is closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect("sqlite", DSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db).Run(context.Background())
	require.NoError(t, err)
	return db
}

// CreateProduct inserts a product with the given stock directly, bypassing
// repository validation.
func CreateProduct(t *testing.T, db *gorm.DB, name string, stock int) models.Product {
	t.Helper()

	p := models.Product{
		Name:          name,
		Description:   name + " die-cast model",
		Tags:          []string{"test"},
		Price:         decimal.RequireFromString("19.99"),
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
