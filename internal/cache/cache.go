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
	"sync"
	"time"

	"address-sync-go/internal/models"
	"address-sync-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend is the remote side of the cache: the authoritative REST service.
// internal/backend.Client is the production implementation.
type Backend interface {
	FetchAddresses(ctx context.Context, userId string) ([]models.Address, string, error)
	CreateAddress(ctx context.Context, userId string, params models.AddressParams) (*models.Address, error)
	UpdateAddress(ctx context.Context, userId, addressId string, patch models.AddressPatch) (*models.Address, error)
	DeleteAddress(ctx context.Context, addressId string) error
	SetDefaultAddress(ctx context.Context, addressId string) error
	FetchDefaultAddress(ctx context.Context, userId string) (*models.Address, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
	SearchPlaces(ctx context.Context, query string, lat, lng float64) ([]models.Place, error)
}

// Config contains the collaborators for a Cache.
type Config struct {
	Backend Backend
	Store   store.AddressStore

	// KnownPlaces is the offline fallback for places search. When nil the
	// built-in list is used.
	KnownPlaces []models.Place
}

// Cache mirrors a user's delivery addresses from the backend into the local
// store, absorbing remote failures into "best known state" reads and
// recording offline mutations as pending rows for a later sync pass.
//
// Error contract: reads and creates never fail on remote errors alone, the
// caller always receives usable data. Update, delete and set-default apply
// the mutation locally as pending and still return the remote error, so
// callers can warn the user about unconfirmed destructive changes.
type Cache struct {
	backend Backend
	store   store.AddressStore
	places  []models.Place

	// Per-user mutation locks. Mutating operations for the same user are
	// serialized so two concurrent writers cannot interleave their
	// read-modify-write on the same row set.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func New(cfg Config) *Cache {
	places := cfg.KnownPlaces
	if places == nil {
		places = defaultKnownPlaces
	}
	return &Cache{
		backend:   cfg.Backend,
		store:     cfg.Store,
		places:    places,
		userLocks: make(map[string]*sync.Mutex),
	}
}

func (c *Cache) userLock(userId string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.userLocks[userId]
	if !ok {
		lock = &sync.Mutex{}
		c.userLocks[userId] = lock
	}
	return lock
}

// GetAddresses returns the user's address collection and default-address id.
// The backend is tried first; on success the local cache is overwritten with
// the fresh collection. On any remote failure the most recently cached state
// is returned instead, an empty collection if nothing was ever cached.
func (c *Cache) GetAddresses(ctx context.Context, userId string) ([]models.Address, string, error) {
	addresses, defaultId, err := c.backend.FetchAddresses(ctx, userId)
	if err == nil {
		if err := c.store.ReplaceUserAddresses(ctx, userId, addresses, defaultId); err != nil {
			return nil, "", err
		}
		for i := range addresses {
			addresses[i].IsDefault = addresses[i].Id == defaultId
		}
		return addresses, defaultId, nil
	}

	zap.L().Warn("Remote fetch failed, serving cached addresses",
		zap.String("user_id", userId),
		zap.Error(err))

	cached, storeErr := c.store.GetUserAddresses(ctx, userId)
	if storeErr != nil {
		return nil, "", storeErr
	}

	cachedDefault, storeErr := c.store.GetDefaultAddressId(ctx, userId)
	if storeErr != nil && !errors.Is(storeErr, store.ErrNoDefaultSet) {
		return nil, "", storeErr
	}

	return cached, cachedDefault, nil
}

// AddAddress creates an address, remotely when possible. When the backend is
// unreachable a pending local row is synthesized with a generated id, so the
// caller always receives a usable address.
func (c *Cache) AddAddress(ctx context.Context, userId string, params models.AddressParams) (*models.Address, error) {
	lock := c.userLock(userId)
	lock.Lock()
	defer lock.Unlock()

	created, err := c.backend.CreateAddress(ctx, userId, params)
	if err == nil {
		if err := c.store.UpsertAddress(ctx, *created); err != nil {
			return nil, err
		}
		if created.IsDefault {
			if err := c.store.SetDefaultAddress(ctx, userId, created.Id); err != nil {
				return nil, err
			}
		}
		return created, nil
	}

	zap.L().Warn("Remote create failed, caching address as pending",
		zap.String("user_id", userId),
		zap.Error(err))

	now := time.Now().UTC()
	local := models.Address{
		Id:         uuid.New().String(),
		UserId:     userId,
		Title:      params.Title,
		Address:    params.Address,
		Latitude:   params.Latitude,
		Longitude:  params.Longitude,
		Type:       params.Type,
		Notes:      params.Notes,
		IsDefault:  params.IsDefault,
		SyncStatus: models.SyncStatusPending,
		Origin:     models.OriginLocal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.store.UpsertAddress(ctx, local); err != nil {
		return nil, err
	}
	return &local, nil
}

// UpdateAddress applies a partial update. On remote failure the patch is
// still merged onto the cached row as pending, and the remote error is
// returned alongside the locally updated row.
func (c *Cache) UpdateAddress(ctx context.Context, userId, addressId string, patch models.AddressPatch) (*models.Address, error) {
	lock := c.userLock(userId)
	lock.Lock()
	defer lock.Unlock()

	updated, remoteErr := c.backend.UpdateAddress(ctx, userId, addressId, patch)
	if remoteErr == nil {
		merged, err := c.mergeServerRow(ctx, userId, *updated)
		if err != nil {
			return nil, err
		}
		return merged, nil
	}

	zap.L().Warn("Remote update failed, recording pending local update",
		zap.String("user_id", userId),
		zap.String("address_id", addressId),
		zap.Error(remoteErr))

	cached, err := c.store.GetAddress(ctx, userId, addressId)
	if err != nil {
		return nil, remoteErr
	}

	patch.Apply(cached)
	cached.SyncStatus = models.SyncStatusPending
	cached.UpdatedAt = time.Now().UTC()
	if err := c.store.UpsertAddress(ctx, *cached); err != nil {
		return nil, err
	}

	return cached, remoteErr
}

// DeleteAddress deletes an address. On remote failure the cached row is kept
// as a pending tombstone and the remote error is returned.
func (c *Cache) DeleteAddress(ctx context.Context, userId, addressId string) error {
	lock := c.userLock(userId)
	lock.Lock()
	defer lock.Unlock()

	remoteErr := c.backend.DeleteAddress(ctx, addressId)
	if remoteErr == nil {
		if err := c.store.RemoveAddress(ctx, userId, addressId); err != nil && !errors.Is(err, store.ErrAddressNotFound) {
			return err
		}
		return nil
	}

	zap.L().Warn("Remote delete failed, tombstoning cached address",
		zap.String("user_id", userId),
		zap.String("address_id", addressId),
		zap.Error(remoteErr))

	cached, err := c.store.GetAddress(ctx, userId, addressId)
	if err != nil {
		return remoteErr
	}

	cached.Deleted = true
	cached.SyncStatus = models.SyncStatusPending
	cached.UpdatedAt = time.Now().UTC()
	if err := c.store.UpsertAddress(ctx, *cached); err != nil {
		return err
	}

	return remoteErr
}

// SetDefaultAddress marks an address as the user's default. The local default
// pointer and per-row flags are rewritten whether or not the remote call
// succeeded; a remote failure is still returned to the caller.
func (c *Cache) SetDefaultAddress(ctx context.Context, userId, addressId string) error {
	lock := c.userLock(userId)
	lock.Lock()
	defer lock.Unlock()

	remoteErr := c.backend.SetDefaultAddress(ctx, addressId)
	if remoteErr != nil {
		zap.L().Warn("Remote set-default failed, updating local default anyway",
			zap.String("user_id", userId),
			zap.String("address_id", addressId),
			zap.Error(remoteErr))
	}

	if err := c.store.SetDefaultAddress(ctx, userId, addressId); err != nil {
		return err
	}

	return remoteErr
}

// GetDefaultAddress returns the user's default address, from the backend when
// reachable, otherwise resolved from the cached default pointer. Returns nil
// without error when no default exists.
func (c *Cache) GetDefaultAddress(ctx context.Context, userId string) (*models.Address, error) {
	addr, err := c.backend.FetchDefaultAddress(ctx, userId)
	if err == nil {
		return addr, nil
	}

	zap.L().Debug("Remote default-address fetch failed, using cached pointer",
		zap.String("user_id", userId),
		zap.Error(err))

	defaultId, storeErr := c.store.GetDefaultAddressId(ctx, userId)
	if storeErr != nil {
		if errors.Is(storeErr, store.ErrNoDefaultSet) {
			return nil, nil
		}
		return nil, storeErr
	}

	cached, storeErr := c.store.GetAddress(ctx, userId, defaultId)
	if storeErr != nil {
		if errors.Is(storeErr, store.ErrAddressNotFound) {
			return nil, nil
		}
		return nil, storeErr
	}
	return cached, nil
}

// AddressesForOrder returns the cached collection without tombstoned rows,
// plus the resolved default address. Order placement reads through here so
// sync-internal state never leaks into it.
func (c *Cache) AddressesForOrder(ctx context.Context, userId string) ([]models.Address, *models.Address, error) {
	cached, err := c.store.GetUserAddresses(ctx, userId)
	if err != nil {
		return nil, nil, err
	}

	addresses := make([]models.Address, 0, len(cached))
	for _, addr := range cached {
		if addr.Deleted {
			continue
		}
		addresses = append(addresses, addr)
	}

	defaultId, err := c.store.GetDefaultAddressId(ctx, userId)
	if err != nil {
		if errors.Is(err, store.ErrNoDefaultSet) {
			return addresses, nil, nil
		}
		return nil, nil, err
	}

	var defaultAddr *models.Address
	for i := range addresses {
		if addresses[i].Id == defaultId {
			defaultAddr = &addresses[i]
			break
		}
	}

	return addresses, defaultAddr, nil
}

// mergeServerRow folds a server representation onto the cached row, keeping
// local-only fields (creation time) when the server omits them.
func (c *Cache) mergeServerRow(ctx context.Context, userId string, server models.Address) (*models.Address, error) {
	merged := server
	merged.SyncStatus = models.SyncStatusSynced
	merged.Origin = models.OriginServer
	merged.UpdatedAt = time.Now().UTC()

	if cached, err := c.store.GetAddress(ctx, userId, server.Id); err == nil {
		if merged.CreatedAt.IsZero() {
			merged.CreatedAt = cached.CreatedAt
		}
	}

	if err := c.store.UpsertAddress(ctx, merged); err != nil {
		return nil, err
	}
	return &merged, nil
}
