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

package types

// Values the enum accessors return for inputs outside the known set, such
// as a status integer read from a row written by a newer schema.
const (
	IllegalName = "unknown"
	IllegalDesc = "unknown"
)

// BaseEnum is the contract for integer-backed domain enums stored as columns
// (order status being the main one). Implementations never panic on out of
// range values; they report IsValid false and the illegal name/description.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}
