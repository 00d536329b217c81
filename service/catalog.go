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

package service

import (
	"context"
	"fmt"

	"github.com/shelfmart/shelfmart/model"
	"github.com/shelfmart/shelfmart/repository"
	"github.com/shelfmart/shelfmart/types"
	"github.com/shelfmart/shelfmart/utils"
	"github.com/uptrace/bun"
)

// CatalogService maintains products, categories, and books. Each call runs
// against its own unit of work, mirroring one request per session.
type CatalogService struct {
	db     *bun.DB
	logger *utils.Logger
}

// NewCatalogService returns a catalog service over the given database.
func NewCatalogService(db *bun.DB) *CatalogService {
	return &CatalogService{db: db, logger: utils.NewLogger("CATALOG")}
}

func (s *CatalogService) uow() *repository.UnitOfWork {
	return repository.NewUnitOfWork(s.db)
}

func validateProduct(p *model.Product) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: product is nil", ErrValidation)
	case p.SKU == "":
		return fmt.Errorf("%w: sku is required", ErrValidation)
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case p.PriceCents < 0:
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return nil
}

// CreateProduct validates and persists a new product. A used SKU yields
// ErrAlreadyExists and leaves the existing row untouched.
func (s *CatalogService) CreateProduct(ctx context.Context, p *model.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}

	uow := s.uow()
	defer func() { _ = uow.Close() }()

	existing, err := uow.Products().GetBySKU(ctx, p.SKU)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: sku %q", ErrAlreadyExists, p.SKU)
	}

	if err := uow.Products().Add(ctx, p); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		// the pre-check races with concurrent writers, the unique index is
		// the real guard
		return translateDBError(err)
	}
	s.logger.Infof("product created sku=%s id=%d", p.SKU, p.ID)
	return nil
}

// GetProduct returns a product by id or ErrNotFound.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	uow := s.uow()
	defer func() { _ = uow.Close() }()

	p, err := uow.Products().GetWithCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return p, nil
}

// UpdateProduct stages a full-row update of an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, p *model.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}

	uow := s.uow()
	defer func() { _ = uow.Close() }()

	found, err := uow.Products().Exists(ctx, p.ID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: product %d", ErrNotFound, p.ID)
	}

	if err := uow.Products().Update(ctx, p); err != nil {
		return err
	}
	_, err = uow.SaveChanges(ctx)
	return translateDBError(err)
}

// DeleteProduct soft deletes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	uow := s.uow()
	defer func() { _ = uow.Close() }()

	found, err := uow.Products().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	_, err = uow.SaveChanges(ctx)
	return err
}

// PageProducts returns one page of products ordered by name.
func (s *CatalogService) PageProducts(ctx context.Context, page, pageSize int) (*types.Pagination[model.Product], error) {
	uow := s.uow()
	defer func() { _ = uow.Close() }()

	return uow.Products().Page(ctx, types.NewPageRequestWithOrders(page, pageSize, []string{"name ASC"}))
}

// SearchProducts matches a substring against name, sku, and description.
func (s *CatalogService) SearchProducts(ctx context.Context, q string) ([]*model.Product, error) {
	uow := s.uow()
	defer func() { _ = uow.Close() }()

	return uow.Products().Search(ctx, q)
}

// CategoryPriceReport returns average product price grouped by category.
func (s *CatalogService) CategoryPriceReport(ctx context.Context) ([]*repository.CategoryPriceStat, error) {
	uow := s.uow()
	defer func() { _ = uow.Close() }()

	return uow.Products().AveragePriceByCategory(ctx)
}

// CreateCategory persists a new category with a unique name.
func (s *CatalogService) CreateCategory(ctx context.Context, c *model.Category) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}

	uow := s.uow()
	defer func() { _ = uow.Close() }()

	existing, err := uow.Categories().First(ctx, types.NewQueryFilter("name = ?", c.Name))
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: category %q", ErrAlreadyExists, c.Name)
	}

	if err := uow.Categories().Add(ctx, c); err != nil {
		return err
	}
	_, err = uow.SaveChanges(ctx)
	return translateDBError(err)
}

func validateBook(b *model.Book) error {
	switch {
	case b == nil:
		return fmt.Errorf("%w: book is nil", ErrValidation)
	case b.ISBN == "":
		return fmt.Errorf("%w: isbn is required", ErrValidation)
	case b.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case b.PriceCents < 0:
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	case b.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return nil
}

// CreateBook validates and persists a new book; authors already present on
// the model are linked through the join table in the same save.
func (s *CatalogService) CreateBook(ctx context.Context, b *model.Book) error {
	if err := validateBook(b); err != nil {
		return err
	}

	uow := s.uow()
	defer func() { _ = uow.Close() }()

	existing, err := uow.Books().GetByISBN(ctx, b.ISBN)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: isbn %q", ErrAlreadyExists, b.ISBN)
	}

	if err := uow.Books().AddWithAuthors(ctx, b); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return translateDBError(err)
	}
	s.logger.Infof("book created isbn=%s id=%d", b.ISBN, b.ID)
	return nil
}

// SearchBooks matches a substring across title, author name, and publisher name.
func (s *CatalogService) SearchBooks(ctx context.Context, q string) ([]*model.Book, error) {
	uow := s.uow()
	defer func() { _ = uow.Close() }()

	return uow.Books().Search(ctx, q)
}
