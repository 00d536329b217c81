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

package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shelfmart/shelfmart/database"
	"github.com/shelfmart/shelfmart/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// newManager connects a sqlite-file-backed manager in a temp directory, so
// each test gets an isolated database.
func newManager(t *testing.T) (database.AbstractDatabaseManager, *bun.DB) {
	t.Helper()

	cfg := database.DefaultConnectionConfig()
	cfg.Type = "sqlite"
	cfg.DBName = filepath.Join(t.TempDir(), "shelfmart-test")
	cfg.HealthCheckInterval = 0

	manager := database.NewDatabaseManager(cfg)
	require.NoError(t, manager.Connect(context.Background()))
	t.Cleanup(func() { _ = manager.Disconnect() })

	db := manager.GetDB()
	require.NotNil(t, db)
	return manager, db
}

// Connecting must resolve every model schema, including the m2m join tables
// the product and book models reference.
func TestConnectBuildsModelSchemas(t *testing.T) {
	manager, db := newManager(t)
	ctx := context.Background()

	require.NoError(t, manager.Ping(ctx))
	require.NoError(t, manager.RunMigrations(ctx))

	cat := &model.Category{Name: "hardware"}
	_, err := db.NewInsert().Model(cat).Exec(ctx)
	require.NoError(t, err)

	p := &model.Product{SKU: "MGR-001", Name: "Bolt", PriceCents: 25, Stock: 500, CategoryID: cat.ID}
	_, err = db.NewInsert().Model(p).Exec(ctx)
	require.NoError(t, err)

	tag := &model.Tag{Name: "fasteners"}
	_, err = db.NewInsert().Model(tag).Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewInsert().Model(&model.ProductTag{ProductID: p.ID, TagID: tag.ID}).Exec(ctx)
	require.NoError(t, err)

	var got model.Product
	err = db.NewSelect().Model(&got).
		Relation("Category").
		Relation("Tags").
		Where("p.id = ?", p.ID).
		Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hardware", got.Category.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "fasteners", got.Tags[0].Name)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	manager, db := newManager(t)
	ctx := context.Background()

	require.NoError(t, manager.RunMigrations(ctx))

	p := &model.Product{SKU: "MGR-101", Name: "Survivor", PriceCents: 100, Stock: 1}
	_, err := db.NewInsert().Model(p).Exec(ctx)
	require.NoError(t, err)

	// second run skips applied versions and leaves data untouched
	require.NoError(t, manager.RunMigrations(ctx))

	applied, err := db.NewSelect().
		Model((*database.Migration)(nil)).
		Where("version = ?", "0001").
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	count, err := db.NewSelect().Model((*model.Product)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSeederRunsSQLFiles(t *testing.T) {
	manager, db := newManager(t)
	ctx := context.Background()
	require.NoError(t, manager.RunMigrations(ctx))

	root := t.TempDir()
	dir := filepath.Join(root, "dev")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	script := `
-- fixtures
INSERT INTO tags (name) VALUES ('seeded-a');
INSERT INTO tags (name) VALUES ('seeded-b');
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001_tags.sql"), []byte(script), 0o644))

	seeder := database.NewSQLSeeder(db, "dev")
	seeder.SetSQLRootPath(root)
	require.NoError(t, seeder.Run(ctx))

	count, err := db.NewSelect().
		Model((*model.Tag)(nil)).
		Where("name LIKE ?", "seeded-%").
		Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSeederMissingEnvironmentIsNoop(t *testing.T) {
	_, db := newManager(t)

	seeder := database.NewSQLSeeder(db, "nonexistent")
	seeder.SetSQLRootPath(t.TempDir())
	assert.NoError(t, seeder.Run(context.Background()))
}
