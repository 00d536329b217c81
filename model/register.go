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

package model

import "github.com/shelfmart/shelfmart/database"

// Models are registered in foreign key dependency order: referenced tables
// carry a lower priority so migrations create them first.
func init() {
	database.RegisteredModel(database.NewModelAdapter((*Category)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Tag)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Publisher)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Author)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Product)(nil), 20))
	database.RegisteredModel(database.NewModelAdapter((*Book)(nil), 20))
	database.RegisteredModel(database.NewModelAdapter((*Order)(nil), 20))
	database.RegisteredModel(database.NewModelAdapter((*ProductTag)(nil), 30))
	database.RegisteredModel(database.NewModelAdapter((*BookAuthor)(nil), 30))
	database.RegisteredModel(database.NewModelAdapter((*OrderItem)(nil), 30))
}
