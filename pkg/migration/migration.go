// Package migration runs versioned schema migrations.
//
// Migrations register themselves from an init() in database/migrations:
//
//	func init() {
//	    migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
//	}
//
// The schema version of a database is the number of migrations applied to it.
// Running the registry against an older database applies only what is
// pending, so upgrades never touch existing rows.
package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/giftwheels/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(db *gorm.DB) error
	// Down reverses the migration.
	Down(db *gorm.DB) error
}

// Entry is a named migration.
type Entry struct {
	Name      string
	Migration Migration
}

// Status describes one migration as seen by a database.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

// ErrNotRegistered is returned by Rollback when the database references a
// migration this binary does not know.
var ErrNotRegistered = errors.New("migration: not registered")

var (
	mu       sync.Mutex
	registry []Entry
)

// Register adds a migration to the global registry. name should be a
// timestamp-prefixed string; entries run sorted by name.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns the registry sorted by name.
func Registered() []Entry {
	mu.Lock()
	out := make([]Entry, len(registry))
	copy(out, registry)
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Runner executes and tracks migrations.
type Runner struct {
	db      *gorm.DB
	entries []Entry
}

// New creates a Runner over the global registry.
func New(db *gorm.DB) *Runner {
	return NewWithSet(db, Registered())
}

// NewWithSet creates a Runner over an explicit, already ordered set.
func NewWithSet(db *gorm.DB, entries []Entry) *Runner {
	return &Runner{db: db, entries: entries}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context) (map[string]record, error) {
	var ran []record
	if err := r.db.WithContext(ctx).Find(&ran).Error; err != nil {
		return nil, fmt.Errorf("migration: read applied: %w", err)
	}
	out := make(map[string]record, len(ran))
	for _, rec := range ran {
		out[rec.Name] = rec
	}
	return out, nil
}

// Pending returns the entries that have not been applied yet.
func (r *Runner) Pending(ctx context.Context) ([]Entry, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	ran, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.entries {
		if _, ok := ran[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run applies every pending migration as one batch and returns their names.
// Each migration and its tracking row commit together.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	pending, err := r.Pending(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		logger.Debug("migration: nothing to migrate")
		return nil, nil
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return nil, err
	}
	batch++

	names := make([]string, 0, len(pending))
	for _, e := range pending {
		logger.Info("migration: running", "name", e.Name, "batch", batch)

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := e.Migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.Name, Batch: batch}).Error
		})
		if err != nil {
			return names, fmt.Errorf("migration: %s up: %w", e.Name, err)
		}
		names = append(names, e.Name)
	}

	logger.Info("migration: done", "ran", len(names), "batch", batch)
	return names, nil
}

// Rollback reverses the most recent batch and returns the reverted names.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}

	batch, err := r.lastBatch(ctx)
	if err != nil || batch == 0 {
		return nil, err
	}

	var records []record
	if err := r.db.WithContext(ctx).Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("migration: read batch %d: %w", batch, err)
	}

	known := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		known[e.Name] = e.Migration
	}

	var names []string
	for _, rec := range records {
		m, ok := known[rec.Name]
		if !ok {
			return names, fmt.Errorf("%w: %s", ErrNotRegistered, rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&record{}, rec.ID).Error
		})
		if err != nil {
			return names, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		names = append(names, rec.Name)
	}
	return names, nil
}

// Status lists every known migration and whether it ran.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	ran, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(r.entries))
	for _, e := range r.entries {
		rec, ok := ran[e.Name]
		out = append(out, Status{Name: e.Name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

// Version returns the number of applied migrations.
func (r *Runner) Version(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("migration: count: %w", err)
	}
	return int(n), nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var maxBatch struct{ Max int }
	err := r.db.WithContext(ctx).Model(&record{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&maxBatch).Error
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return maxBatch.Max, nil
}
