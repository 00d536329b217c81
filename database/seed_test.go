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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	script := `
-- header comment
INSERT INTO tags (name) VALUES ('a');

INSERT INTO tags (name)
VALUES ('b'); -- trailing statement

-- only a comment between semicolons
;
`
	stmts := splitStatements(script)
	assert.Len(t, stmts, 2)
	assert.Equal(t, "INSERT INTO tags (name) VALUES ('a')", stmts[0])
	assert.Contains(t, stmts[1], "VALUES ('b')")
}

func TestSplitStatementsEmpty(t *testing.T) {
	assert.Empty(t, splitStatements(""))
	assert.Empty(t, splitStatements("-- nothing here\n"))
}
