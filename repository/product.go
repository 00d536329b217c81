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
	"time"

	"github.com/shelfmart/shelfmart/model"
)

type productRepositoryImpl struct {
	*baseRepositoryImpl[model.Product]
}

func newProductRepository(uow *UnitOfWork) ProductRepository {
	return &productRepositoryImpl{&baseRepositoryImpl[model.Product]{uow: uow}}
}

func (r *productRepositoryImpl) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	err := r.session().NewSelect().Model(&product).Where("sku = ?", sku).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepositoryImpl) GetWithCategory(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.session().NewSelect().Model(&product).
		Relation("Category").
		Where("p.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepositoryImpl) GetWithTags(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.session().NewSelect().Model(&product).
		Relation("Tags").
		Where("p.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepositoryImpl) Search(ctx context.Context, q string) ([]*model.Product, error) {
	var products []*model.Product
	pattern := "%" + q + "%"
	err := r.session().NewSelect().Model(&products).
		Where("p.name LIKE ? OR p.sku LIKE ? OR p.description LIKE ?", pattern, pattern, pattern).
		Order("p.name ASC").
		Scan(ctx)
	return products, err
}

func (r *productRepositoryImpl) ListByCategory(ctx context.Context, categoryID int64) ([]*model.Product, error) {
	var products []*model.Product
	err := r.session().NewSelect().Model(&products).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Scan(ctx)
	return products, err
}

func (r *productRepositoryImpl) LowStock(ctx context.Context, threshold int) ([]*model.Product, error) {
	var products []*model.Product
	err := r.session().NewSelect().Model(&products).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Scan(ctx)
	return products, err
}

func (r *productRepositoryImpl) AveragePriceByCategory(ctx context.Context) ([]*CategoryPriceStat, error) {
	var stats []*CategoryPriceStat
	err := r.session().NewSelect().Model((*model.Product)(nil)).
		ColumnExpr("p.category_id AS category_id").
		ColumnExpr("c.name AS category").
		ColumnExpr("AVG(p.price_cents) AS avg_price_cents").
		ColumnExpr("COUNT(*) AS products").
		Join("JOIN categories AS c ON c.id = p.category_id").
		Group("p.category_id", "c.name").
		Scan(ctx, &stats)
	return stats, err
}

func (r *productRepositoryImpl) AdjustStock(ctx context.Context, id int64, delta int) (bool, error) {
	query := r.session().NewUpdate().Model((*model.Product)(nil)).
		Set("stock = stock + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id)
	if delta < 0 {
		// never drive stock negative
		query = query.Where("stock >= ?", -delta)
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return false, err
	}
	return rowsAffected(res) == 1, nil
}
