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
	"fmt"

	"address-sync-go/internal/common"
	"address-sync-go/internal/config"
	"address-sync-go/internal/models"
	"address-sync-go/internal/store"

	"go.uber.org/zap"
)

type reportStats struct {
	totalUsers       int
	totalAddresses   int
	pendingAddresses int
	tombstonedRows   int
}

func printUserHeader(userId string, addressCount int, defaultId string) {
	fmt.Printf("\n┌─ User: %s\n", userId)
	fmt.Printf("│  Addresses: %d\n", addressCount)
	if defaultId != "" {
		fmt.Printf("│  Default: %s\n", defaultId)
	}
	common.PrintBoxSeparator(98)
}

func addressStatus(addr models.Address) string {
	switch {
	case addr.Deleted:
		return "pending delete"
	case addr.SyncStatus == models.SyncStatusPending && addr.Origin == models.OriginLocal:
		return "pending create"
	case addr.SyncStatus == models.SyncStatusPending:
		return "pending update"
	default:
		return "synced"
	}
}

func printAddress(addr models.Address, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	marker := " "
	if addr.IsDefault {
		marker = "*"
	}
	fmt.Printf("%s%s %-20s → %s\n", symbol, marker, addr.Title, addr.Address)

	detailSymbol := common.BoxDetailPrefix(isLast)
	fmt.Printf("%s   %s | %.5f, %.5f | %s\n", detailSymbol, addressStatus(addr), addr.Latitude, addr.Longitude, addr.Id)
	if addr.Notes != "" {
		fmt.Printf("%s   Notes: %s\n", detailSymbol, addr.Notes)
	}
}

func processUser(ctx context.Context, userId string, addressStore store.AddressStore) (int, int, int, error) {
	addresses, err := addressStore.GetUserAddresses(ctx, userId)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get addresses: %w", err)
	}

	if len(addresses) == 0 {
		return 0, 0, 0, nil
	}

	defaultId, err := addressStore.GetDefaultAddressId(ctx, userId)
	if err != nil {
		defaultId = ""
	}

	printUserHeader(userId, len(addresses), defaultId)

	var pending, tombstoned int
	for i, addr := range addresses {
		if addr.SyncStatus == models.SyncStatusPending {
			pending++
		}
		if addr.Deleted {
			tombstoned++
		}
		printAddress(addr, i == len(addresses)-1)
	}

	return len(addresses), pending, tombstoned, nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	userFlag := flag.String("user", "", "Filter by specific user id (optional)")
	flag.Parse()

	logger.Info("Starting cached address report")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Initialize the local store only; the report reads cached state,
	// never the backend.
	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	addressStore, err := common.InitializeStoreOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer addressStore.Close()

	var userIds []string
	if *userFlag != "" {
		userIds = []string{*userFlag}
	} else {
		userIds, err = addressStore.ListUserIds(ctx)
		if err != nil {
			logger.Fatal("Failed to list users", zap.Error(err))
		}
	}

	// Print header
	common.PrintHeader("CACHED DELIVERY ADDRESSES REPORT", common.WideWidth)

	stats := reportStats{}
	for _, userId := range userIds {
		count, pending, tombstoned, err := processUser(ctx, userId, addressStore)
		if err != nil {
			logger.Error("Failed to process user",
				zap.String("user_id", userId),
				zap.Error(err))
			continue
		}
		if count > 0 {
			stats.totalUsers++
			stats.totalAddresses += count
			stats.pendingAddresses += pending
			stats.tombstonedRows += tombstoned
		}
	}

	// Print footer summary
	summary := fmt.Sprintf("SUMMARY: %d users, %d addresses (%d pending sync, %d pending delete)",
		stats.totalUsers, stats.totalAddresses, stats.pendingAddresses, stats.tombstonedRows)
	common.PrintFooter(summary, common.WideWidth)

	logger.Info("Address report completed",
		zap.Int("users", stats.totalUsers),
		zap.Int("addresses", stats.totalAddresses),
		zap.Int("pending", stats.pendingAddresses))
}
