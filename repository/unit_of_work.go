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
	"errors"
	"sync"

	"github.com/shelfmart/shelfmart/model"
	"github.com/uptrace/bun"
)

var (
	// ErrTransactionActive is returned by Begin while a transaction is open.
	ErrTransactionActive = errors.New("transaction already active")

	// ErrNoTransaction is returned by Commit/Rollback without an open transaction.
	ErrNoTransaction = errors.New("no active transaction")

	// ErrClosed is returned when the unit of work has been closed.
	ErrClosed = errors.New("unit of work is closed")
)

// stagedOp is a deferred write executed against the flushing session,
// returning the number of affected rows.
type stagedOp func(ctx context.Context, db bun.IDB) (int64, error)

// UnitOfWork coordinates the repositories of one logical session. Reads run
// immediately against the active transaction (or the base connection when no
// transaction is open); writes are staged and flushed atomically by
// SaveChanges or Commit.
//
// A UnitOfWork is intended for a single request and is not safe for use by
// multiple goroutines staging writes concurrently.
type UnitOfWork struct {
	db     *bun.DB
	mu     sync.Mutex
	tx     *bun.Tx
	staged []stagedOp
	closed bool

	products   ProductRepository
	books      BookRepository
	orders     OrderRepository
	categories Repository[model.Category]
	tags       Repository[model.Tag]
	authors    Repository[model.Author]
	publishers Repository[model.Publisher]
}

// NewUnitOfWork returns a unit of work over the given Bun DB.
func NewUnitOfWork(db *bun.DB) *UnitOfWork {
	u := &UnitOfWork{db: db}
	u.products = newProductRepository(u)
	u.books = newBookRepository(u)
	u.orders = newOrderRepository(u)
	u.categories = NewRepository[model.Category](u)
	u.tags = NewRepository[model.Tag](u)
	u.authors = NewRepository[model.Author](u)
	u.publishers = NewRepository[model.Publisher](u)
	return u
}

func (u *UnitOfWork) Products() ProductRepository            { return u.products }
func (u *UnitOfWork) Books() BookRepository                  { return u.books }
func (u *UnitOfWork) Orders() OrderRepository                { return u.orders }
func (u *UnitOfWork) Categories() Repository[model.Category] { return u.categories }
func (u *UnitOfWork) Tags() Repository[model.Tag]            { return u.tags }
func (u *UnitOfWork) Authors() Repository[model.Author]      { return u.authors }
func (u *UnitOfWork) Publishers() Repository[model.Publisher] { return u.publishers }

// session returns the active transaction, or the base connection.
func (u *UnitOfWork) session() bun.IDB {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// stage queues a deferred write.
func (u *UnitOfWork) stage(op stagedOp) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	u.staged = append(u.staged, op)
	return nil
}

// Pending returns the number of staged, unflushed writes.
func (u *UnitOfWork) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.staged)
}

// SaveChanges flushes all staged writes in order and returns the total number
// of affected rows. With an open transaction the writes run inside it and
// remain uncommitted; otherwise they run in an implicit transaction. A flush
// error rolls the open transaction back before it propagates.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return 0, ErrClosed
	}
	ops := u.staged
	u.staged = nil
	tx := u.tx
	u.mu.Unlock()

	if len(ops) == 0 {
		return 0, nil
	}

	var affected int64
	flush := func(ctx context.Context, db bun.IDB) error {
		for _, op := range ops {
			n, err := op(ctx, db)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	}

	if tx != nil {
		if err := flush(ctx, tx); err != nil {
			_ = u.Rollback()
			return 0, err
		}
		return int(affected), nil
	}

	err := u.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return flush(ctx, tx)
	})
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// Begin opens an explicit transaction. Starting a second transaction while
// one is active is a caller error and fails fast.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	if u.tx != nil {
		return ErrTransactionActive
	}
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	u.tx = &tx
	return nil
}

// Commit flushes any staged writes into the open transaction and commits it.
// A flush error rolls the transaction back before it propagates.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	if u.tx == nil {
		u.mu.Unlock()
		return ErrNoTransaction
	}
	u.mu.Unlock()

	if _, err := u.SaveChanges(ctx); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Commit()
	u.tx = nil
	return err
}

// Rollback aborts the open transaction and discards staged writes.
func (u *UnitOfWork) Rollback() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Rollback()
	u.tx = nil
	u.staged = nil
	return err
}

// Do runs fn inside an explicit transaction: rollback when fn errors, commit
// otherwise.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := u.Begin(ctx); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		u.mu.Lock()
		open := u.tx != nil
		u.mu.Unlock()
		if open {
			_ = u.Rollback()
		}
		return err
	}
	return u.Commit(ctx)
}

// Close rolls back any open transaction, discards staged writes, and marks
// the unit of work unusable. It is safe to call multiple times.
func (u *UnitOfWork) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return nil
	}
	u.closed = true
	u.staged = nil
	if u.tx != nil {
		err := u.tx.Rollback()
		u.tx = nil
		return err
	}
	return nil
}
