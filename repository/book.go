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
	"database/sql"
	"errors"

	"github.com/shelfmart/shelfmart/model"
	"github.com/uptrace/bun"
)

type bookRepositoryImpl struct {
	*baseRepositoryImpl[model.Book]
}

func newBookRepository(uow *UnitOfWork) BookRepository {
	return &bookRepositoryImpl{&baseRepositoryImpl[model.Book]{uow: uow}}
}

func (r *bookRepositoryImpl) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	var book model.Book
	err := r.session().NewSelect().Model(&book).Where("isbn = ?", isbn).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepositoryImpl) GetWithAuthors(ctx context.Context, id int64) (*model.Book, error) {
	var book model.Book
	err := r.session().NewSelect().Model(&book).
		Relation("Publisher").
		Relation("Authors").
		Where("b.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepositoryImpl) AddWithAuthors(ctx context.Context, book *model.Book) error {
	return r.uow.stage(func(ctx context.Context, db bun.IDB) (int64, error) {
		res, err := db.NewInsert().Model(book).Exec(ctx)
		if err != nil {
			return 0, err
		}
		affected := rowsAffected(res)
		if len(book.Authors) == 0 {
			return affected, nil
		}
		links := make([]*model.BookAuthor, 0, len(book.Authors))
		for _, a := range book.Authors {
			links = append(links, &model.BookAuthor{BookID: book.ID, AuthorID: a.ID})
		}
		res, err = db.NewInsert().Model(&links).Exec(ctx)
		if err != nil {
			return 0, err
		}
		return affected + rowsAffected(res), nil
	})
}

func (r *bookRepositoryImpl) Search(ctx context.Context, q string) ([]*model.Book, error) {
	var books []*model.Book
	pattern := "%" + q + "%"
	err := r.session().NewSelect().Model(&books).
		Relation("Publisher").
		Relation("Authors").
		Join("LEFT JOIN book_authors AS ba ON ba.book_id = b.id").
		Join("LEFT JOIN authors AS sa ON sa.id = ba.author_id").
		Join("LEFT JOIN publishers AS sp ON sp.id = b.publisher_id").
		Where("b.title LIKE ? OR sa.name LIKE ? OR sp.name LIKE ?", pattern, pattern, pattern).
		Distinct().
		Order("b.title ASC").
		Scan(ctx)
	return books, err
}
