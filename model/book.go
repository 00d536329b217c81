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

// Publisher is a book imprint.
type Publisher struct {
	bun.BaseModel `bun:"table:publishers,alias:pub"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull,unique" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Author writes books. Authors attach to books via the book_authors join table.
type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Book is a catalog item identified by ISBN. Prices are stored in cents.
// Rows are soft deleted; default queries exclude deleted books.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID          int64      `bun:"id,pk,autoincrement" json:"id"`
	ISBN        string     `bun:"isbn,notnull,unique" json:"isbn"`
	Title       string     `bun:"title,notnull" json:"title"`
	PriceCents  int64      `bun:"price_cents,notnull" json:"price_cents"`
	Stock       int        `bun:"stock,notnull,default:0" json:"stock"`
	PublisherID int64      `bun:"publisher_id,nullzero" json:"publisher_id,omitempty"`
	Publisher   *Publisher `bun:"rel:belongs-to,join:publisher_id=id" json:"publisher,omitempty"`
	Authors     []*Author  `bun:"m2m:book_authors,join:Book=Author" json:"authors,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt   time.Time  `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// IsDeleted reports whether the book has been soft deleted.
func (b *Book) IsDeleted() bool { return !b.DeletedAt.IsZero() }

// BookAuthor joins books and authors.
type BookAuthor struct {
	bun.BaseModel `bun:"table:book_authors,alias:ba"`

	BookID   int64   `bun:"book_id,pk" json:"book_id"`
	Book     *Book   `bun:"rel:belongs-to,join:book_id=id" json:"-"`
	AuthorID int64   `bun:"author_id,pk" json:"author_id"`
	Author   *Author `bun:"rel:belongs-to,join:author_id=id" json:"-"`
}
