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

type orderRepositoryImpl struct {
	*baseRepositoryImpl[model.Order]
}

func newOrderRepository(uow *UnitOfWork) OrderRepository {
	return &orderRepositoryImpl{&baseRepositoryImpl[model.Order]{uow: uow}}
}

func (r *orderRepositoryImpl) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	var order model.Order
	err := r.session().NewSelect().Model(&order).Where("number = ?", number).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepositoryImpl) GetWithItems(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.session().NewSelect().Model(&order).
		Relation("Items").
		Relation("Items.Product").
		Where("o.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepositoryImpl) ListByStatus(ctx context.Context, status model.OrderStatus) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.session().NewSelect().Model(&orders).
		Where("status = ?", int(status)).
		Order("created_at DESC").
		Scan(ctx)
	return orders, err
}

func (r *orderRepositoryImpl) AddWithItems(ctx context.Context, order *model.Order) error {
	return r.uow.stage(func(ctx context.Context, db bun.IDB) (int64, error) {
		res, err := db.NewInsert().Model(order).Exec(ctx)
		if err != nil {
			return 0, err
		}
		affected := rowsAffected(res)
		if len(order.Items) == 0 {
			return affected, nil
		}
		// the order id exists only after the insert above
		for _, item := range order.Items {
			item.OrderID = order.ID
		}
		res, err = db.NewInsert().Model(&order.Items).Exec(ctx)
		if err != nil {
			return 0, err
		}
		return affected + rowsAffected(res), nil
	})
}
