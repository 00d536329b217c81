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

import "github.com/shelfmart/shelfmart/types"

// OrderStatus is the lifecycle state of an order, stored as an integer column.
type OrderStatus int

const (
	OrderPending OrderStatus = iota
	OrderPaid
	OrderShipped
	OrderCancelled
)

var orderStatusNames = map[OrderStatus]string{
	OrderPending:   "pending",
	OrderPaid:      "paid",
	OrderShipped:   "shipped",
	OrderCancelled: "cancelled",
}

var orderStatusDescs = map[OrderStatus]string{
	OrderPending:   "created, awaiting payment",
	OrderPaid:      "payment received",
	OrderShipped:   "handed to carrier",
	OrderCancelled: "cancelled, stock restored",
}

// allowed transitions: pending -> paid|cancelled, paid -> shipped
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderShipped},
}

var _ types.BaseEnum = OrderPending

func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

func (s OrderStatus) Number() int { return int(s) }

func (s OrderStatus) Name() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return types.IllegalName
}

func (s OrderStatus) String() string { return s.Name() }

func (s OrderStatus) Desc() string {
	if desc, ok := orderStatusDescs[s]; ok {
		return desc
	}
	return types.IllegalDesc
}

// CanTransition reports whether moving from s to next is a legal step.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderStatusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}
