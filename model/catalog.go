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

	"github.com/shelfmart/shelfmart/types"
	"github.com/uptrace/bun"
)

// Category groups products. Categories may be nested one level via ParentID.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull,unique" json:"name"`
	ParentID  int64     `bun:"parent_id,nullzero" json:"parent_id,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Product is a sellable catalog item. Prices are stored in cents.
// Rows are soft deleted; default queries exclude deleted products.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64            `bun:"id,pk,autoincrement" json:"id"`
	SKU         string           `bun:"sku,notnull,unique" json:"sku"`
	Name        string           `bun:"name,notnull" json:"name"`
	Description string           `bun:"description" json:"description,omitempty"`
	PriceCents  int64            `bun:"price_cents,notnull" json:"price_cents"`
	Stock       int              `bun:"stock,notnull,default:0" json:"stock"`
	Attributes  types.JsonObject `bun:"attributes,type:jsonb" json:"attributes,omitempty"`
	CategoryID  int64            `bun:"category_id,nullzero" json:"category_id,omitempty"`
	Category    *Category        `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Tags        []*Tag           `bun:"m2m:product_tags,join:Product=Tag" json:"tags,omitempty"`
	CreatedAt   time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time        `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt   time.Time        `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// IsDeleted reports whether the product has been soft deleted.
func (p *Product) IsDeleted() bool { return !p.DeletedAt.IsZero() }

// Tag is a flat label attached to products.
type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

// ProductTag joins products and tags.
type ProductTag struct {
	bun.BaseModel `bun:"table:product_tags,alias:pt"`

	ProductID int64    `bun:"product_id,pk" json:"product_id"`
	Product   *Product `bun:"rel:belongs-to,join:product_id=id" json:"-"`
	TagID     int64    `bun:"tag_id,pk" json:"tag_id"`
	Tag       *Tag     `bun:"rel:belongs-to,join:tag_id=id" json:"-"`
}
