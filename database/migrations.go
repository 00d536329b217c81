/*
 * Copyright 2025 shelfmart.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/uptrace/bun"
)

// Migration represents an applied migration record stored in the database.
type Migration struct {
	bun.BaseModel `bun:"table:shelfmart_migrations,alias:sm"`

	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at,nullzero,notnull,default:current_timestamp"`
	Description string    `bun:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

// MigrationItem describes a single migration version.
type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
}

var (
	registeredMigrationsMu sync.Mutex
	registeredMigrations   []MigrationItem
)

// RegisterMigration adds a migration item to the global migration list.
func RegisterMigration(item MigrationItem) {
	registeredMigrationsMu.Lock()
	defer registeredMigrationsMu.Unlock()
	registeredMigrations = append(registeredMigrations, item)
}

func allMigrations() []MigrationItem {
	registeredMigrationsMu.Lock()
	defer registeredMigrationsMu.Unlock()
	items := make([]MigrationItem, len(registeredMigrations))
	copy(items, registeredMigrations)
	return items
}

func init() {
	RegisterMigration(MigrationItem{
		Version:     "0001",
		Name:        "create_tables",
		Description: "create tables for all registered models",
		Up:          createRegisteredTables,
	})
}

// createRegisteredTables creates one table per registered model in priority
// order, so foreign key targets exist before the tables referencing them.
func createRegisteredTables(ctx context.Context, db bun.IDB) error {
	for _, m := range GetRegisteredModels() {
		_, err := db.NewCreateTable().
			Model(m.Instance()).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for %T: %w", m.Instance(), err)
		}
	}
	return nil
}

// MigrationManager coordinates schema migrations.
type MigrationManager struct {
	db     *bun.DB
	logger Logger
}

// NewMigrationManager constructs a new MigrationManager.
func NewMigrationManager(db *bun.DB, logger Logger) *MigrationManager {
	return &MigrationManager{db: db, logger: logger}
}

// RunMigrations creates the migration tracking table if needed and executes
// all registered migrations in ascending version order, skipping applied ones.
func (mm *MigrationManager) RunMigrations(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}

	// silent migration
	if _, ok := os.LookupEnv("SHELFMART_SQL_MIGRATION"); !ok {
		EnableSqlSilent(true)
		defer EnableSqlSilent(false)
	}

	if err := mm.createMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := allMigrations()
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	for _, migration := range migrations {
		if err := mm.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}
	return nil
}

func (mm *MigrationManager) createMigrationTable(ctx context.Context) error {
	_, err := mm.db.NewCreateTable().
		Model((*Migration)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (mm *MigrationManager) applied(ctx context.Context, version string) (bool, error) {
	exists, err := mm.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", version).
		Exists(ctx)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

func (mm *MigrationManager) runMigration(ctx context.Context, item MigrationItem) error {
	done, err := mm.applied(ctx, item.Version)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	err = mm.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if item.Up != nil {
			if err := item.Up(ctx, tx); err != nil {
				return err
			}
		}
		record := &Migration{
			Version:     item.Version,
			Name:        item.Name,
			AppliedAt:   time.Now(),
			Description: item.Description,
		}
		_, err := tx.NewInsert().Model(record).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if mm.logger != nil {
		mm.logger.Info("Migration applied", "version", item.Version, "name", item.Name)
	}
	return nil
}
