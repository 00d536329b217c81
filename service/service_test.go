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

package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/shelfmart/shelfmart/database"
	"github.com/shelfmart/shelfmart/model"
	"github.com/shelfmart/shelfmart/repository"
	"github.com/shelfmart/shelfmart/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc-%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	database.RegisterAllModels(db)

	ctx := context.Background()
	for _, m := range database.RegisteredModelInstances() {
		_, err := db.NewCreateTable().Model(m).IfNotExists().WithForeignKeys().Exec(ctx)
		require.NoError(t, err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func productStock(t *testing.T, db *bun.DB, id int64) int {
	t.Helper()
	uow := repository.NewUnitOfWork(db)
	defer func() { _ = uow.Close() }()
	p, err := uow.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func TestCreateProductAndDuplicateSKU(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)

	first := &model.Product{SKU: "SKU-1", Name: "Original", PriceCents: 1000, Stock: 5}
	require.NoError(t, catalog.CreateProduct(ctx, first))
	require.NotZero(t, first.ID)

	dup := &model.Product{SKU: "SKU-1", Name: "Impostor", PriceCents: 9999, Stock: 1}
	err := catalog.CreateProduct(ctx, dup)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	got, err := catalog.GetProduct(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Name)
	assert.Equal(t, int64(1000), got.PriceCents)
}

func TestCreateProductValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)

	cases := []*model.Product{
		nil,
		{Name: "no sku", PriceCents: 1},
		{SKU: "S", PriceCents: 1},
		{SKU: "S", Name: "negative price", PriceCents: -1},
		{SKU: "S", Name: "negative stock", PriceCents: 1, Stock: -1},
	}
	for _, p := range cases {
		assert.ErrorIs(t, catalog.CreateProduct(ctx, p), service.ErrValidation)
	}
}

func TestGetProductNotFound(t *testing.T) {
	db := newTestDB(t)
	catalog := service.NewCatalogService(db)

	_, err := catalog.GetProduct(context.Background(), 12345)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteProductIsSoft(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)

	p := &model.Product{SKU: "SKU-DEL", Name: "Fleeting", PriceCents: 100, Stock: 1}
	require.NoError(t, catalog.CreateProduct(ctx, p))
	require.NoError(t, catalog.DeleteProduct(ctx, p.ID))

	_, err := catalog.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, catalog.DeleteProduct(ctx, p.ID), service.ErrNotFound)

	uow := repository.NewUnitOfWork(db)
	defer func() { _ = uow.Close() }()
	raw, err := uow.Products().GetByIDWithDeleted(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.True(t, raw.IsDeleted())
}

func TestCreateCategoryAndDuplicateName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)

	require.NoError(t, catalog.CreateCategory(ctx, &model.Category{Name: "games"}))
	assert.ErrorIs(t, catalog.CreateCategory(ctx, &model.Category{Name: "games"}), service.ErrAlreadyExists)
	assert.ErrorIs(t, catalog.CreateCategory(ctx, &model.Category{}), service.ErrValidation)
}

func TestCreateBookWithAuthors(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)

	uow := repository.NewUnitOfWork(db)
	pub := &model.Publisher{Name: "Night Owl"}
	author := &model.Author{Name: "C. Penn"}
	require.NoError(t, uow.Publishers().Add(ctx, pub))
	require.NoError(t, uow.Authors().Add(ctx, author))
	_, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Close())

	book := &model.Book{
		ISBN:        "978-0-11-222333-4",
		Title:       "Night Work",
		PriceCents:  2200,
		Stock:       3,
		PublisherID: pub.ID,
		Authors:     []*model.Author{author},
	}
	require.NoError(t, catalog.CreateBook(ctx, book))
	require.NotZero(t, book.ID)

	dup := &model.Book{ISBN: book.ISBN, Title: "Copycat", PriceCents: 1}
	assert.ErrorIs(t, catalog.CreateBook(ctx, dup), service.ErrAlreadyExists)

	found, err := catalog.SearchBooks(ctx, "Penn")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Night Work", found[0].Title)
}

func TestPlaceOrderCapturesPricesAndDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)
	orders := service.NewOrderService(db)

	p1 := &model.Product{SKU: "SKU-P1", Name: "Mug", PriceCents: 800, Stock: 10}
	p2 := &model.Product{SKU: "SKU-P2", Name: "Pen", PriceCents: 150, Stock: 20}
	require.NoError(t, catalog.CreateProduct(ctx, p1))
	require.NoError(t, catalog.CreateProduct(ctx, p2))

	order, err := orders.PlaceOrder(ctx, []service.OrderLine{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 4},
	})
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotEmpty(t, order.Number)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, int64(2*800+4*150), order.TotalCents)
	require.Len(t, order.Items, 2)

	assert.Equal(t, 8, productStock(t, db, p1.ID))
	assert.Equal(t, 16, productStock(t, db, p2.ID))

	got, err := orders.GetOrderByNumber(ctx, order.Number)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestPlaceOrderIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)
	orders := service.NewOrderService(db)

	plenty := &model.Product{SKU: "SKU-PL", Name: "Plenty", PriceCents: 100, Stock: 50}
	scarce := &model.Product{SKU: "SKU-SC", Name: "Scarce", PriceCents: 100, Stock: 1}
	require.NoError(t, catalog.CreateProduct(ctx, plenty))
	require.NoError(t, catalog.CreateProduct(ctx, scarce))

	_, err := orders.PlaceOrder(ctx, []service.OrderLine{
		{ProductID: plenty.ID, Quantity: 5},
		{ProductID: scarce.ID, Quantity: 2},
	})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	// the reservation on the first line must have been released
	assert.Equal(t, 50, productStock(t, db, plenty.ID))
	assert.Equal(t, 1, productStock(t, db, scarce.ID))

	uow := repository.NewUnitOfWork(db)
	defer func() { _ = uow.Close() }()
	count, err := uow.Orders().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	orders := service.NewOrderService(db)

	_, err := orders.PlaceOrder(context.Background(), []service.OrderLine{{ProductID: 777, Quantity: 1}})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPlaceOrderValidatesLines(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	orders := service.NewOrderService(db)

	_, err := orders.PlaceOrder(ctx, nil)
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = orders.PlaceOrder(ctx, []service.OrderLine{{ProductID: 1, Quantity: 0}})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = orders.PlaceOrder(ctx, []service.OrderLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 1, Quantity: 2},
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)
	orders := service.NewOrderService(db)

	p := &model.Product{SKU: "SKU-CAN", Name: "Returnable", PriceCents: 300, Stock: 7}
	require.NoError(t, catalog.CreateProduct(ctx, p))

	order, err := orders.PlaceOrder(ctx, []service.OrderLine{{ProductID: p.ID, Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, 4, productStock(t, db, p.ID))

	require.NoError(t, orders.CancelOrder(ctx, order.ID))
	assert.Equal(t, 7, productStock(t, db, p.ID))

	got, err := orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, got.Status)

	// cancelled is terminal
	assert.ErrorIs(t, orders.CancelOrder(ctx, order.ID), service.ErrInvalidTransition)
	assert.Equal(t, 7, productStock(t, db, p.ID))
}

func TestCancelOrderFailsWhenProductRowGone(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)
	orders := service.NewOrderService(db)

	p := &model.Product{SKU: "SKU-GONE", Name: "Ephemeral", PriceCents: 100, Stock: 5}
	require.NoError(t, catalog.CreateProduct(ctx, p))
	order, err := orders.PlaceOrder(ctx, []service.OrderLine{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	_, err = db.NewDelete().
		Model((*model.Product)(nil)).
		Where("id = ?", p.ID).
		ForceDelete().
		Exec(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, orders.CancelOrder(ctx, order.ID), service.ErrNotFound)

	got, err := orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, got.Status)
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)
	orders := service.NewOrderService(db)

	p := &model.Product{SKU: "SKU-LC", Name: "Shippable", PriceCents: 100, Stock: 5}
	require.NoError(t, catalog.CreateProduct(ctx, p))
	order, err := orders.PlaceOrder(ctx, []service.OrderLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	// pending -> shipped skips payment
	assert.ErrorIs(t, orders.UpdateStatus(ctx, order.ID, model.OrderShipped), service.ErrInvalidTransition)

	require.NoError(t, orders.UpdateStatus(ctx, order.ID, model.OrderPaid))
	require.NoError(t, orders.UpdateStatus(ctx, order.ID, model.OrderShipped))

	got, err := orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, got.Status)

	// shipped orders cannot be cancelled, stock stays reserved
	assert.ErrorIs(t, orders.UpdateStatus(ctx, order.ID, model.OrderCancelled), service.ErrInvalidTransition)
	assert.Equal(t, 4, productStock(t, db, p.ID))

	assert.ErrorIs(t, orders.UpdateStatus(ctx, order.ID, model.OrderStatus(99)), service.ErrValidation)
	assert.ErrorIs(t, orders.UpdateStatus(ctx, 4242, model.OrderPaid), service.ErrNotFound)
}

func TestPageAndSearchProducts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	catalog := service.NewCatalogService(db)

	for i := 0; i < 7; i++ {
		p := &model.Product{
			SKU:        fmt.Sprintf("SKU-PS%d", i),
			Name:       fmt.Sprintf("gadget %d", i),
			PriceCents: 100,
			Stock:      1,
		}
		require.NoError(t, catalog.CreateProduct(ctx, p))
	}

	page, err := catalog.PageProducts(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
	assert.Len(t, page.Items, 3)
	assert.True(t, page.HasNext())

	found, err := catalog.SearchProducts(ctx, "gadget 3")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "SKU-PS3", found[0].SKU)
}
