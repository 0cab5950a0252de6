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

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"address-sync-go/internal/common"
	"address-sync-go/internal/config"
	"address-sync-go/internal/syncer"

	"go.uber.org/zap"
)

func main() {
	userFlag := flag.String("user", "", "Optional user id: run a single sync pass for this user and exit")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting delivery address sync daemon")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	// One-shot mode: drain a single user's pending rows and exit.
	if *userFlag != "" {
		zap.L().Info("Running one-shot sync", zap.String("user_id", *userFlag))
		oneShotCtx, oneShotCancel := context.WithTimeout(ctx, cfg.Sync.StartupTimeout)
		defer oneShotCancel()
		services.Cache.SyncPendingAddresses(oneShotCtx, *userFlag)
		return
	}

	s := syncer.New(syncer.Config{
		Cache:    services.Cache,
		Store:    services.Store,
		Interval: cfg.Sync.Interval,
	})

	if err := s.Start(ctx); err != nil {
		zap.L().Fatal("Failed to start syncer", zap.Error(err))
	}

	zap.L().Info("Sync daemon running", zap.Duration("interval", cfg.Sync.Interval))
	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received, stopping syncer...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Syncer stopped gracefully")
	case <-shutdownCtx.Done():
		zap.L().Warn("Forced shutdown after timeout")
	}
}
