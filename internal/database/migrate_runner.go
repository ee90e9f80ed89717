package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"yatube/internal/middleware"

	"gorm.io/gorm"
)

// MigrationStore records which embedded SQL migrations have been applied.
type MigrationStore interface {
	GetAppliedMigrations(ctx context.Context) ([]int, error)
	Apply(ctx context.Context, m Migration) error
	Revert(ctx context.Context, m Migration) error
}

// schemaMigration is one row of the schema_migrations bookkeeping table.
type schemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migrationStore struct {
	db *gorm.DB
}

// NewMigrationStore returns a store backed by the schema_migrations table.
func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &migrationStore{db: db}
}

func (s *migrationStore) ensureTable(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if db.Migrator().HasTable(&schemaMigration{}) {
		return nil
	}
	if err := db.Migrator().CreateTable(&schemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns applied versions in ascending order. A
// database that never ran a migration has none.
func (s *migrationStore) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(&schemaMigration{}) {
		return []int{}, nil
	}
	var versions []int
	if err := db.Model(&schemaMigration{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}
	return versions, nil
}

// Apply runs the up script and records it in one transaction.
func (s *migrationStore) Apply(ctx context.Context, m Migration) error {
	if err := s.ensureTable(ctx); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.UpScript).Error; err != nil {
			return err
		}
		return tx.Create(&schemaMigration{Version: m.Version, Name: m.Name}).Error
	})
	if err != nil {
		return fmt.Errorf("apply migration %s: %w", m.String(), err)
	}
	middleware.Logger.InfoContext(ctx, "migration applied", slog.Int("version", m.Version), slog.String("name", m.Name))
	return nil
}

// Revert runs the down script and forgets the version in one transaction.
func (s *migrationStore) Revert(ctx context.Context, m Migration) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return err
		}
		return tx.Where("version = ?", m.Version).Delete(&schemaMigration{}).Error
	})
	if err != nil {
		return fmt.Errorf("revert migration %s: %w", m.String(), err)
	}
	middleware.Logger.InfoContext(ctx, "migration reverted", slog.Int("version", m.Version), slog.String("name", m.Name))
	return nil
}

// RunMigrations applies every registered migration that is not yet recorded.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if err := validateAppliedVersions(applied, migrations); err != nil {
		return err
	}

	for _, m := range pendingMigrations(applied, migrations) {
		if err := store.Apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// RollbackMigration reverts one applied migration.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	store := NewMigrationStore(db)
	applied, err := store.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %d has not been applied", version)
	}
	return store.Revert(ctx, *m)
}

// pendingMigrations returns the registered migrations missing from applied,
// keeping registration order.
func pendingMigrations(applied []int, registered []Migration) []Migration {
	var pending []Migration
	for _, m := range registered {
		if !slices.Contains(applied, m.Version) {
			pending = append(pending, m)
		}
	}
	return pending
}

// validateAppliedVersions fails when the database knows versions the binary
// does not, which means the binary is older than the schema.
func validateAppliedVersions(applied []int, registered []Migration) error {
	var unknown []int
	for _, version := range applied {
		if !slices.ContainsFunc(registered, func(m Migration) bool { return m.Version == version }) {
			unknown = append(unknown, version)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	slices.Sort(unknown)
	parts := make([]string, 0, len(unknown))
	for _, version := range unknown {
		parts = append(parts, fmt.Sprintf("%06d", version))
	}
	return fmt.Errorf("schema_migrations has versions unknown to this build: %s", strings.Join(parts, ", "))
}
