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

	"github.com/google/uuid"
	"github.com/shelfmart/shelfmart/model"
	"github.com/shelfmart/shelfmart/repository"
	"github.com/shelfmart/shelfmart/utils"
	"github.com/uptrace/bun"
)

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderService places and transitions orders. Stock movements and order rows
// change together or not at all.
type OrderService struct {
	db     *bun.DB
	logger *utils.Logger
}

// NewOrderService returns an order service over the given database.
func NewOrderService(db *bun.DB) *OrderService {
	return &OrderService{db: db, logger: utils.NewLogger("ORDERS")}
}

func (s *OrderService) uow() *repository.UnitOfWork {
	return repository.NewUnitOfWork(s.db)
}

func validateLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: order needs at least one line", ErrValidation)
	}
	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive for product %d", ErrValidation, l.ProductID)
		}
		if seen[l.ProductID] {
			return fmt.Errorf("%w: duplicate line for product %d", ErrValidation, l.ProductID)
		}
		seen[l.ProductID] = true
	}
	return nil
}

// PlaceOrder reserves stock for every line and creates a pending order with
// the current unit prices captured on the items. Any missing product or
// insufficient stock aborts the whole order and releases nothing.
func (s *OrderService) PlaceOrder(ctx context.Context, lines []OrderLine) (*model.Order, error) {
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	uow := s.uow()
	defer func() { _ = uow.Close() }()

	order := &model.Order{
		Number: uuid.NewString(),
		Status: model.OrderPending,
	}

	err := uow.Do(ctx, func(ctx context.Context) error {
		for _, line := range lines {
			p, err := uow.Products().GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: product %d", ErrNotFound, line.ProductID)
			}

			ok, err := uow.Products().AdjustStock(ctx, p.ID, -line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: product %d has %d, wanted %d",
					ErrInsufficientStock, p.ID, p.Stock, line.Quantity)
			}

			item := &model.OrderItem{
				ProductID:      p.ID,
				Quantity:       line.Quantity,
				UnitPriceCents: p.PriceCents,
			}
			order.Items = append(order.Items, item)
			order.TotalCents += item.LineTotalCents()
		}

		if err := uow.Orders().AddWithItems(ctx, order); err != nil {
			return err
		}
		_, err := uow.SaveChanges(ctx)
		return translateDBError(err)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("order placed number=%s lines=%d total=%d", order.Number, len(order.Items), order.TotalCents)
	return order, nil
}

// CancelOrder moves an order to cancelled and restores the exact quantities
// recorded on its items. Orders past pending cannot be cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, id int64) error {
	uow := s.uow()
	defer func() { _ = uow.Close() }()

	return uow.Do(ctx, func(ctx context.Context) error {
		order, err := uow.Orders().GetWithItems(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		if !order.Status.CanTransition(model.OrderCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, model.OrderCancelled)
		}

		for _, item := range order.Items {
			ok, err := uow.Products().AdjustStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// restoring nothing would lose the reserved stock silently
				return fmt.Errorf("%w: product %d for order %s", ErrNotFound, item.ProductID, order.Number)
			}
		}

		order.Status = model.OrderCancelled
		if err := uow.Orders().Update(ctx, order); err != nil {
			return err
		}
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}
		s.logger.Infof("order cancelled number=%s", order.Number)
		return nil
	})
}

// UpdateStatus moves an order along the pending -> paid -> shipped path.
// Cancellation goes through CancelOrder so stock is restored.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, next model.OrderStatus) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: unknown status %d", ErrValidation, next.Number())
	}
	if next == model.OrderCancelled {
		return s.CancelOrder(ctx, id)
	}

	uow := s.uow()
	defer func() { _ = uow.Close() }()

	order, err := uow.Orders().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	if !order.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	order.Status = next
	if err := uow.Orders().Update(ctx, order); err != nil {
		return err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	s.logger.Infof("order %s moved to %s", order.Number, next)
	return nil
}

// GetOrder returns one order with items and products, or ErrNotFound.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	uow := s.uow()
	defer func() { _ = uow.Close() }()

	order, err := uow.Orders().GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	return order, nil
}

// GetOrderByNumber returns one order by its public number, or ErrNotFound.
func (s *OrderService) GetOrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	uow := s.uow()
	defer func() { _ = uow.Close() }()

	order, err := uow.Orders().GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %q", ErrNotFound, number)
	}
	return order, nil
}

// ListByStatus returns all orders in the given state.
func (s *OrderService) ListByStatus(ctx context.Context, status model.OrderStatus) ([]*model.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %d", ErrValidation, status.Number())
	}

	uow := s.uow()
	defer func() { _ = uow.Close() }()

	return uow.Orders().ListByStatus(ctx, status)
}
