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

package syncer

import (
	"context"
	"fmt"
	"time"

	"address-sync-go/internal/cache"
	"address-sync-go/internal/store"

	"go.uber.org/zap"
)

// Config contains configuration for a Syncer.
type Config struct {
	Cache    *cache.Cache
	Store    store.AddressStore
	Interval time.Duration
}

// Syncer periodically drains pending address rows back to the backend for
// every user present in the local cache. Each tick is best-effort: a failed
// user drain is logged and the remaining users are still attempted.
type Syncer struct {
	cache    *cache.Cache
	store    store.AddressStore
	interval time.Duration

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a new background syncer.
func New(cfg Config) *Syncer {
	return &Syncer{
		cache:    cfg.Cache,
		store:    cfg.Store,
		interval: cfg.Interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start runs one immediate drain pass to clear anything accumulated while
// the process was down, then begins the periodic loop.
func (s *Syncer) Start(ctx context.Context) error {
	zap.L().Info("Starting address syncer", zap.Duration("interval", s.interval))

	if _, err := s.store.ListUserIds(ctx); err != nil {
		return fmt.Errorf("failed to read local cache: %w", err)
	}

	s.drainAll(ctx)

	go s.loop(ctx)

	zap.L().Info("Address syncer started successfully")
	return nil
}

// Stop gracefully stops the syncer, waiting for an in-flight pass to finish.
func (s *Syncer) Stop() {
	zap.L().Info("Stopping address syncer")
	close(s.stopChan)
	<-s.doneChan
	zap.L().Info("Address syncer stopped")
}

func (s *Syncer) loop(ctx context.Context) {
	defer close(s.doneChan)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.drainAll(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// drainAll runs one sync pass over every cached user, serially.
func (s *Syncer) drainAll(ctx context.Context) {
	userIds, err := s.store.ListUserIds(ctx)
	if err != nil {
		zap.L().Error("Failed to list users for sync pass", zap.Error(err))
		return
	}

	if len(userIds) == 0 {
		return
	}

	zap.L().Debug("Running sync pass", zap.Int("users", len(userIds)))

	for _, userId := range userIds {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}
		s.cache.SyncPendingAddresses(ctx, userId)
	}
}
