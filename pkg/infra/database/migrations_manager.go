package database

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

const DefaultVersionTable = "public.migration_version"

type Migration struct {
	ID   string
	Name string
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

var registry = make(map[string]Migration)

// RegisterMigration is called from init functions of the migrations package.
func RegisterMigration(m Migration) {
	if _, exists := registry[m.ID]; exists {
		panic(fmt.Sprintf("migration with ID %s already registered", m.ID))
	}
	registry[m.ID] = m
}

type MigrationsOption func(*MigrationsManager)

func WithVersionTable(table string) MigrationsOption {
	return func(m *MigrationsManager) {
		m.table = table
	}
}

// WithMigrations replaces the registered migrations.
func WithMigrations(migrations ...Migration) MigrationsOption {
	return func(m *MigrationsManager) {
		m.migrations = make(map[string]Migration, len(migrations))
		for _, mig := range migrations {
			m.migrations[mig.ID] = mig
		}
	}
}

type MigrationsManager struct {
	db         *gorm.DB
	table      string
	migrations map[string]Migration
}

func NewMigrationsManager(db *gorm.DB, opts ...MigrationsOption) *MigrationsManager {
	m := &MigrationsManager{
		db:         db,
		table:      DefaultVersionTable,
		migrations: registry,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MigrationsManager) ensureVersionTable() error {
	return m.db.Exec(fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMP NOT NULL
);`, m.table)).Error
}

func (m *MigrationsManager) applied() (map[string]struct{}, error) {
	var ids []string
	if err := m.db.Raw(fmt.Sprintf("SELECT id FROM %s", m.table)).Scan(&ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *MigrationsManager) ordered() []string {
	ids := make([]string, 0, len(m.migrations))
	for id := range m.migrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pending lists the IDs not yet recorded in the version table, in apply order.
func (m *MigrationsManager) Pending() ([]string, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, fmt.Errorf("ensure migrations table: %w", err)
	}
	done, err := m.applied()
	if err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	var pending []string
	for _, id := range m.ordered() {
		if _, ok := done[id]; !ok {
			pending = append(pending, id)
		}
	}
	return pending, nil
}

func (m *MigrationsManager) ApplyPending() error {
	pending, err := m.Pending()
	if err != nil {
		return err
	}
	for _, id := range pending {
		mig := m.migrations[id]
		if mig.Up == nil {
			return fmt.Errorf("migration %s has no Up function", id)
		}
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Exec(
				fmt.Sprintf("INSERT INTO %s (id, name, applied_at) VALUES (?, ?, ?)", m.table),
				mig.ID, mig.Name, time.Now().UTC(),
			).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s (%s): %w", mig.ID, mig.Name, err)
		}
	}
	return nil
}

// Rollback reverts the most recently applied migration.
func (m *MigrationsManager) Rollback() error {
	if err := m.ensureVersionTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}
	done, err := m.applied()
	if err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}
	ids := m.ordered()
	for i := len(ids) - 1; i >= 0; i-- {
		if _, ok := done[ids[i]]; !ok {
			continue
		}
		mig := m.migrations[ids[i]]
		if mig.Down == nil {
			return fmt.Errorf("migration %s has no Down function", mig.ID)
		}
		return m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Down(tx); err != nil {
				return fmt.Errorf("rollback migration %s: %w", mig.ID, err)
			}
			return tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", m.table), mig.ID).Error
		})
	}
	return nil
}
