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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// SQLSeeder discovers and executes SQL files to seed data for one
// environment. Files live under <root>/<environment>/ and are executed in
// filename order; each file runs inside its own transaction.
type SQLSeeder struct {
	db          *bun.DB
	environment string
	sqlRootPath string
	logger      Logger
}

// NewSQLSeeder creates a SQL seeder for the given environment.
func NewSQLSeeder(db *bun.DB, environment string) *SQLSeeder {
	return &SQLSeeder{
		db:          db,
		environment: environment,
		sqlRootPath: "configs/sql",
		logger:      GetLogger(),
	}
}

// SetSQLRootPath sets the root directory from which SQL files are loaded.
func (s *SQLSeeder) SetSQLRootPath(path string) {
	s.sqlRootPath = path
}

// Run executes all discovered SQL files for the seeder's environment.
func (s *SQLSeeder) Run(ctx context.Context) error {
	files, err := s.sqlFiles()
	if err != nil {
		return fmt.Errorf("failed to list seed files: %w", err)
	}
	if len(files) == 0 {
		s.logger.Info("No seed SQL files found", "environment", s.environment, "path", s.sqlRootPath)
		return nil
	}

	for _, file := range files {
		start := time.Now()
		if err := s.executeFile(ctx, file); err != nil {
			return fmt.Errorf("seed file %s failed: %w", file, err)
		}
		s.logger.Info("Seed file executed", "file", filepath.Base(file), "duration", time.Since(start))
	}
	return nil
}

func (s *SQLSeeder) sqlFiles() ([]string, error) {
	dir := filepath.Join(s.sqlRootPath, s.environment)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (s *SQLSeeder) executeFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range splitStatements(string(data)) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("statement %q: %w", truncate(stmt, 120), err)
			}
		}
		return nil
	})
}

// splitStatements splits a SQL script on semicolons, dropping comment-only
// and empty fragments. Semicolons inside string literals are not supported;
// seed files should keep statements simple.
func splitStatements(script string) []string {
	var statements []string
	for _, raw := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(raw, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
