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

package cache

import (
	"context"
	"errors"
	"fmt"

	"address-sync-go/internal/models"
	"address-sync-go/internal/store"

	"go.uber.org/zap"
)

// SyncPendingAddresses pushes every pending row for the user back to the
// backend, one row at a time. A row failure is logged and does not stop the
// remaining rows from being attempted. The pass is best-effort: callers get
// no per-row result, the cache state afterwards is the result.
func (c *Cache) SyncPendingAddresses(ctx context.Context, userId string) {
	lock := c.userLock(userId)
	lock.Lock()
	defer lock.Unlock()

	pending, err := c.store.GetPendingAddresses(ctx, userId)
	if err != nil {
		zap.L().Error("Failed to load pending addresses for sync",
			zap.String("user_id", userId),
			zap.Error(err))
		return
	}

	if len(pending) == 0 {
		return
	}

	zap.L().Info("Syncing pending addresses",
		zap.String("user_id", userId),
		zap.Int("pending", len(pending)))

	var synced, failed int
	for _, row := range pending {
		if err := c.syncRow(ctx, row); err != nil {
			failed++
			zap.L().Warn("Failed to sync pending address",
				zap.String("user_id", userId),
				zap.String("address_id", row.Id),
				zap.Bool("tombstone", row.Deleted),
				zap.Error(err))
			continue
		}
		synced++
	}

	zap.L().Info("Pending address sync completed",
		zap.String("user_id", userId),
		zap.Int("synced", synced),
		zap.Int("failed", failed))
}

func (c *Cache) syncRow(ctx context.Context, row models.Address) error {
	switch {
	case row.Deleted:
		return c.syncTombstone(ctx, row)
	case row.Origin == models.OriginLocal:
		return c.syncLocalCreate(ctx, row)
	default:
		return c.syncUpdate(ctx, row)
	}
}

// syncTombstone confirms a soft-deleted row with the backend, then drops it.
func (c *Cache) syncTombstone(ctx context.Context, row models.Address) error {
	// A tombstoned row the server never saw needs no remote call.
	if row.Origin != models.OriginLocal {
		if err := c.backend.DeleteAddress(ctx, row.Id); err != nil {
			return fmt.Errorf("remote delete failed: %w", err)
		}
	}

	if err := c.store.RemoveAddress(ctx, row.UserId, row.Id); err != nil && !errors.Is(err, store.ErrAddressNotFound) {
		return err
	}

	zap.L().Debug("Tombstone cleared",
		zap.String("user_id", row.UserId),
		zap.String("address_id", row.Id))
	return nil
}

// syncLocalCreate replays an offline creation: the server assigns the
// authoritative id, the local row is replaced with the server row.
func (c *Cache) syncLocalCreate(ctx context.Context, row models.Address) error {
	created, err := c.backend.CreateAddress(ctx, row.UserId, models.AddressParams{
		Title:     row.Title,
		Address:   row.Address,
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
		Type:      row.Type,
		Notes:     row.Notes,
		IsDefault: row.IsDefault,
	})
	if err != nil {
		return fmt.Errorf("remote create failed: %w", err)
	}

	if err := c.store.RemoveAddress(ctx, row.UserId, row.Id); err != nil && !errors.Is(err, store.ErrAddressNotFound) {
		return err
	}
	if err := c.store.UpsertAddress(ctx, *created); err != nil {
		return err
	}

	// The local id may be the default pointer; move it to the server id.
	if defaultId, err := c.store.GetDefaultAddressId(ctx, row.UserId); err == nil && defaultId == row.Id {
		if err := c.store.SetDefaultAddress(ctx, row.UserId, created.Id); err != nil {
			return err
		}
	}

	zap.L().Info("Offline-created address synced",
		zap.String("user_id", row.UserId),
		zap.String("local_id", row.Id),
		zap.String("server_id", created.Id))
	return nil
}

// syncUpdate replays a pending edit of a server-known row.
func (c *Cache) syncUpdate(ctx context.Context, row models.Address) error {
	patch := models.AddressPatch{
		Title:     &row.Title,
		Address:   &row.Address,
		Latitude:  &row.Latitude,
		Longitude: &row.Longitude,
		Type:      &row.Type,
		Notes:     &row.Notes,
		IsDefault: &row.IsDefault,
	}

	updated, err := c.backend.UpdateAddress(ctx, row.UserId, row.Id, patch)
	if err != nil {
		return fmt.Errorf("remote update failed: %w", err)
	}

	if _, err := c.mergeServerRow(ctx, row.UserId, *updated); err != nil {
		return err
	}

	zap.L().Debug("Pending update synced",
		zap.String("user_id", row.UserId),
		zap.String("address_id", row.Id))
	return nil
}
