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

import (
	"time"

	"github.com/uptrace/bun"
)

// Order is a customer order. TotalCents is derived from the line items at
// creation time and never recomputed afterwards.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID         int64        `bun:"id,pk,autoincrement" json:"id"`
	Number     string       `bun:"number,notnull,unique" json:"number"`
	Status     OrderStatus  `bun:"status,notnull,default:0" json:"status"`
	TotalCents int64        `bun:"total_cents,notnull" json:"total_cents"`
	Items      []*OrderItem `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`
	CreatedAt  time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time    `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// OrderItem is one order line. UnitPriceCents captures the product price at
// the moment the order was placed.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID             int64    `bun:"id,pk,autoincrement" json:"id"`
	OrderID        int64    `bun:"order_id,notnull" json:"order_id"`
	ProductID      int64    `bun:"product_id,notnull" json:"product_id"`
	Product        *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
	Quantity       int      `bun:"quantity,notnull" json:"quantity"`
	UnitPriceCents int64    `bun:"unit_price_cents,notnull" json:"unit_price_cents"`
}

// LineTotalCents returns quantity times the captured unit price.
func (i *OrderItem) LineTotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}
