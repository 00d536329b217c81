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

	"github.com/shelfmart/shelfmart/types"
	"github.com/uptrace/bun"
)

type baseRepositoryImpl[T any] struct {
	uow *UnitOfWork
}

// NewRepository returns a generic repository bound to the given unit of work.
func NewRepository[T any](uow *UnitOfWork) Repository[T] {
	return &baseRepositoryImpl[T]{uow: uow}
}

func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}

func (r *baseRepositoryImpl[T]) session() bun.IDB { return r.uow.session() }

func (r *baseRepositoryImpl[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	var entity T
	err := r.session().NewSelect().Model(&entity).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetByIDWithDeleted(ctx context.Context, id int64) (*T, error) {
	var entity T
	err := r.session().NewSelect().Model(&entity).WhereAllWithDeleted().Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.session().NewSelect().Model(&entities).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) GetAllWithDeleted(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.session().NewSelect().Model(&entities).WhereAllWithDeleted().Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Find(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	var entities []*T
	query := r.session().NewSelect().Model(&entities)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	err := query.Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) First(ctx context.Context, filter *types.QueryFilter) (*T, error) {
	var entity T
	query := r.session().NewSelect().Model(&entity)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	err := query.Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var entity T
	return r.session().NewSelect().Model(&entity).Where("id = ?", id).Exists(ctx)
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context) (int, error) {
	var entity T
	return r.session().NewSelect().Model(&entity).Count(ctx)
}

func (r *baseRepositoryImpl[T]) CountWhere(ctx context.Context, filter *types.QueryFilter) (int, error) {
	var entity T
	query := r.session().NewSelect().Model(&entity)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	return query.Count(ctx)
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	var entities []*T
	query := r.session().NewSelect().Model(&entities)
	if pageRequest.GetFilter() != nil {
		query = query.Where(pageRequest.GetFilter().Schema, pageRequest.GetFilter().Args...)
	}
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}
	err = query.
		Offset(pageRequest.GetOffset()).
		Limit(pageRequest.GetPageSize()).
		Order(pageRequest.GetOrders()...).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = entities
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Add(ctx context.Context, entity ...*T) error {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return r.uow.stage(func(ctx context.Context, db bun.IDB) (int64, error) {
		res, err := db.NewInsert().Model(&entities).Exec(ctx)
		if err != nil {
			return 0, err
		}
		return rowsAffected(res), nil
	})
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	return r.uow.stage(func(ctx context.Context, db bun.IDB) (int64, error) {
		res, err := db.NewUpdate().Model(entity).WherePK().Exec(ctx)
		if err != nil {
			return 0, err
		}
		return rowsAffected(res), nil
	})
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id int64) (bool, error) {
	found, err := r.Exists(ctx, id)
	if err != nil || !found {
		return false, err
	}
	err = r.uow.stage(func(ctx context.Context, db bun.IDB) (int64, error) {
		var entity T
		res, err := db.NewDelete().Model(&entity).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return 0, err
		}
		return rowsAffected(res), nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
