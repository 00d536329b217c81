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
	"errors"

	"github.com/shelfmart/shelfmart/database"
)

// Domain error kinds. Callers classify failures with errors.Is; an HTTP
// layer would map them to 404, 409, 400, 409, 409 respectively.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// translateDBError maps recognizable driver errors onto domain errors.
// Unrecognized errors pass through untouched.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	is, kind := database.IsSqlError(err)
	if !is {
		return err
	}
	switch kind {
	case database.DuplicateKeyErr:
		return errors.Join(ErrAlreadyExists, err)
	case database.NotNullViolationErr, database.CheckConstraintViolationErr, database.DataTruncatedErr:
		return errors.Join(ErrValidation, err)
	default:
		return err
	}
}
