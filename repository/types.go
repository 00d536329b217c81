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

package repository

import (
	"context"

	"github.com/shelfmart/shelfmart/model"
	"github.com/shelfmart/shelfmart/types"
)

// ReadRepository defines lookups for a generic entity type. Absent rows are
// reported as (nil, nil), never as an error. Soft-deleted rows are excluded
// unless the WithDeleted variant is used.
type ReadRepository[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	// GetAllWithDeleted bypasses the soft-delete filter.
	GetAllWithDeleted(ctx context.Context) ([]*T, error)

	// GetByIDWithDeleted bypasses the soft-delete filter for a point lookup.
	GetByIDWithDeleted(ctx context.Context, id int64) (*T, error)

	Find(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	First(ctx context.Context, filter *types.QueryFilter) (*T, error)

	Exists(ctx context.Context, id int64) (bool, error)

	Count(ctx context.Context) (int, error)

	CountWhere(ctx context.Context, filter *types.QueryFilter) (int, error)
}

// WriteRepository defines mutations for a generic entity type. Writes are
// staged on the owning unit of work and become durable only when it saves or
// commits.
type WriteRepository[T any] interface {
	Add(ctx context.Context, entity ...*T) error

	Update(ctx context.Context, entity *T) error

	// Delete stages removal of the row and reports whether it exists. Models
	// with a soft-delete column are flagged instead of removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines lookups, staged writes, and pagination for one entity
// type sharing the owning unit of work's session.
type Repository[T any] interface {
	ReadRepository[T]
	WriteRepository[T]
	PageQueryRepository[T]
}

// CategoryPriceStat is the projection returned by AveragePriceByCategory.
type CategoryPriceStat struct {
	CategoryID    int64   `bun:"category_id" json:"category_id"`
	Category      string  `bun:"category" json:"category"`
	AvgPriceCents float64 `bun:"avg_price_cents" json:"avg_price_cents"`
	Products      int     `bun:"products" json:"products"`
}

// ProductRepository adds the closed set of product queries used by services.
type ProductRepository interface {
	Repository[model.Product]

	GetBySKU(ctx context.Context, sku string) (*model.Product, error)

	// GetWithCategory eagerly loads the product's category.
	GetWithCategory(ctx context.Context, id int64) (*model.Product, error)

	// GetWithTags eagerly loads the product's tags.
	GetWithTags(ctx context.Context, id int64) (*model.Product, error)

	// Search matches a substring against name, sku, and description.
	Search(ctx context.Context, q string) ([]*model.Product, error)

	ListByCategory(ctx context.Context, categoryID int64) ([]*model.Product, error)

	LowStock(ctx context.Context, threshold int) ([]*model.Product, error)

	AveragePriceByCategory(ctx context.Context) ([]*CategoryPriceStat, error)

	// AdjustStock atomically applies a stock delta. Negative deltas are
	// guarded so stock never goes below zero; the bool reports whether the
	// row was updated.
	AdjustStock(ctx context.Context, id int64, delta int) (bool, error)
}

// BookRepository adds the closed set of book queries used by services.
type BookRepository interface {
	Repository[model.Book]

	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)

	// GetWithAuthors eagerly loads publisher and authors.
	GetWithAuthors(ctx context.Context, id int64) (*model.Book, error)

	// Search matches a substring across title, author name, and publisher name.
	Search(ctx context.Context, q string) ([]*model.Book, error)

	// AddWithAuthors stages insertion of the book and join rows for the
	// authors already attached to it (authors must exist).
	AddWithAuthors(ctx context.Context, book *model.Book) error
}

// OrderRepository adds the closed set of order queries used by services.
type OrderRepository interface {
	Repository[model.Order]

	GetByNumber(ctx context.Context, number string) (*model.Order, error)

	// GetWithItems eagerly loads line items and their products.
	GetWithItems(ctx context.Context, id int64) (*model.Order, error)

	ListByStatus(ctx context.Context, status model.OrderStatus) ([]*model.Order, error)

	// AddWithItems stages insertion of the order and its line items as one
	// operation, wiring item OrderIDs once the order row exists.
	AddWithItems(ctx context.Context, order *model.Order) error
}
