/**
 * Copyright 2025-present the address-sync authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import (
	"context"
	"errors"

	"address-sync-go/internal/models"
)

// Sentinel errors shared across store implementations.
var (
	ErrAddressNotFound = errors.New("address not found")
	ErrNoDefaultSet    = errors.New("no default address set")
)

// AddressStore defines the local persistence contract for cached delivery
// addresses. The SQLite backend in internal/database is the production
// implementation; tests may substitute their own.
type AddressStore interface {
	// --- Addresses ---
	GetUserAddresses(ctx context.Context, userId string) ([]models.Address, error)
	GetAddress(ctx context.Context, userId, addressId string) (*models.Address, error)
	GetPendingAddresses(ctx context.Context, userId string) ([]models.Address, error)
	UpsertAddress(ctx context.Context, addr models.Address) error
	RemoveAddress(ctx context.Context, userId, addressId string) error

	// ReplaceUserAddresses swaps the user's entire cached collection for the
	// given rows in one transaction. Used after a successful remote fetch.
	ReplaceUserAddresses(ctx context.Context, userId string, addresses []models.Address, defaultAddressId string) error

	// --- Default pointer ---
	SetDefaultAddress(ctx context.Context, userId, addressId string) error
	GetDefaultAddressId(ctx context.Context, userId string) (string, error)

	// --- Users ---
	ListUserIds(ctx context.Context) ([]string, error)

	// --- Lifecycle ---
	Close()
}
