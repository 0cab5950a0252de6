package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"address-sync-go/internal/models"
	"address-sync-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	service := &Service{db: db}

	// Use the actual schema initialization
	if err := service.initSchema(); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func testAddress(id, userId, title string) models.Address {
	return models.Address{
		Id:         id,
		UserId:     userId,
		Title:      title,
		Address:    "Unity Avenue, Juba",
		Latitude:   4.8594,
		Longitude:  31.5713,
		Type:       "home",
		SyncStatus: models.SyncStatusSynced,
		Origin:     models.OriginServer,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}

func TestUpsertAndGetAddress(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	addr := testAddress("addr-1", "user1", "Home")

	if err := service.UpsertAddress(ctx, addr); err != nil {
		t.Fatalf("UpsertAddress failed: %v", err)
	}

	got, err := service.GetAddress(ctx, "user1", "addr-1")
	if err != nil {
		t.Fatalf("GetAddress failed: %v", err)
	}
	if got.Title != "Home" {
		t.Errorf("Expected title Home, got %s", got.Title)
	}
	if got.SyncStatus != models.SyncStatusSynced {
		t.Errorf("Expected sync status synced, got %s", got.SyncStatus)
	}

	// Upsert again with changed fields replaces the row.
	addr.Title = "House"
	addr.SyncStatus = models.SyncStatusPending
	if err := service.UpsertAddress(ctx, addr); err != nil {
		t.Fatalf("Second UpsertAddress failed: %v", err)
	}

	got, err = service.GetAddress(ctx, "user1", "addr-1")
	if err != nil {
		t.Fatalf("GetAddress after update failed: %v", err)
	}
	if got.Title != "House" {
		t.Errorf("Expected title House, got %s", got.Title)
	}
	if got.SyncStatus != models.SyncStatusPending {
		t.Errorf("Expected sync status pending, got %s", got.SyncStatus)
	}
}

func TestGetAddress_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetAddress(context.Background(), "user1", "missing")
	if !errors.Is(err, store.ErrAddressNotFound) {
		t.Errorf("Expected ErrAddressNotFound, got: %v", err)
	}
}

func TestReplaceUserAddresses(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	// Seed a stale row that the fetched collection no longer contains.
	if err := service.UpsertAddress(ctx, testAddress("stale", "user1", "Old")); err != nil {
		t.Fatalf("Failed to seed stale row: %v", err)
	}

	fresh := []models.Address{
		testAddress("srv-1", "user1", "Home"),
		testAddress("srv-2", "user1", "Work"),
	}
	if err := service.ReplaceUserAddresses(ctx, "user1", fresh, "srv-2"); err != nil {
		t.Fatalf("ReplaceUserAddresses failed: %v", err)
	}

	addresses, err := service.GetUserAddresses(ctx, "user1")
	if err != nil {
		t.Fatalf("GetUserAddresses failed: %v", err)
	}
	if len(addresses) != 2 {
		t.Fatalf("Expected 2 addresses, got %d", len(addresses))
	}
	for _, addr := range addresses {
		if addr.Id == "stale" {
			t.Errorf("Stale row survived collection replacement")
		}
		if addr.IsDefault != (addr.Id == "srv-2") {
			t.Errorf("Address %s: expected is_default=%v, got %v", addr.Id, addr.Id == "srv-2", addr.IsDefault)
		}
	}

	defaultId, err := service.GetDefaultAddressId(ctx, "user1")
	if err != nil {
		t.Fatalf("GetDefaultAddressId failed: %v", err)
	}
	if defaultId != "srv-2" {
		t.Errorf("Expected default srv-2, got %s", defaultId)
	}
}

func TestReplaceUserAddresses_OtherUserUntouched(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.UpsertAddress(ctx, testAddress("other-1", "user2", "Home")); err != nil {
		t.Fatalf("Failed to seed other user: %v", err)
	}

	if err := service.ReplaceUserAddresses(ctx, "user1", []models.Address{testAddress("srv-1", "user1", "Home")}, ""); err != nil {
		t.Fatalf("ReplaceUserAddresses failed: %v", err)
	}

	otherAddresses, err := service.GetUserAddresses(ctx, "user2")
	if err != nil {
		t.Fatalf("GetUserAddresses for user2 failed: %v", err)
	}
	if len(otherAddresses) != 1 {
		t.Errorf("Expected user2's address to survive, got %d rows", len(otherAddresses))
	}
}

func TestSetDefaultAddress_Exclusivity(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	first := testAddress("addr-1", "user1", "Home")
	first.IsDefault = true
	second := testAddress("addr-2", "user1", "Work")

	if err := service.UpsertAddress(ctx, first); err != nil {
		t.Fatalf("Failed to insert first address: %v", err)
	}
	if err := service.UpsertAddress(ctx, second); err != nil {
		t.Fatalf("Failed to insert second address: %v", err)
	}

	if err := service.SetDefaultAddress(ctx, "user1", "addr-2"); err != nil {
		t.Fatalf("SetDefaultAddress failed: %v", err)
	}

	addresses, err := service.GetUserAddresses(ctx, "user1")
	if err != nil {
		t.Fatalf("GetUserAddresses failed: %v", err)
	}
	for _, addr := range addresses {
		if addr.IsDefault != (addr.Id == "addr-2") {
			t.Errorf("Address %s: expected is_default=%v, got %v", addr.Id, addr.Id == "addr-2", addr.IsDefault)
		}
	}

	defaultId, err := service.GetDefaultAddressId(ctx, "user1")
	if err != nil {
		t.Fatalf("GetDefaultAddressId failed: %v", err)
	}
	if defaultId != "addr-2" {
		t.Errorf("Expected default addr-2, got %s", defaultId)
	}
}

func TestGetDefaultAddressId_NoneSet(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetDefaultAddressId(context.Background(), "user1")
	if !errors.Is(err, store.ErrNoDefaultSet) {
		t.Errorf("Expected ErrNoDefaultSet, got: %v", err)
	}
}

func TestGetPendingAddresses(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	synced := testAddress("addr-1", "user1", "Home")
	pending := testAddress("addr-2", "user1", "Work")
	pending.SyncStatus = models.SyncStatusPending
	tombstone := testAddress("addr-3", "user1", "Gone")
	tombstone.SyncStatus = models.SyncStatusPending
	tombstone.Deleted = true

	for _, addr := range []models.Address{synced, pending, tombstone} {
		if err := service.UpsertAddress(ctx, addr); err != nil {
			t.Fatalf("Failed to insert %s: %v", addr.Id, err)
		}
	}

	rows, err := service.GetPendingAddresses(ctx, "user1")
	if err != nil {
		t.Fatalf("GetPendingAddresses failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 pending rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.SyncStatus != models.SyncStatusPending {
			t.Errorf("Row %s is not pending", row.Id)
		}
	}
}

func TestRemoveAddress(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.UpsertAddress(ctx, testAddress("addr-1", "user1", "Home")); err != nil {
		t.Fatalf("Failed to insert address: %v", err)
	}

	if err := service.RemoveAddress(ctx, "user1", "addr-1"); err != nil {
		t.Fatalf("RemoveAddress failed: %v", err)
	}

	if err := service.RemoveAddress(ctx, "user1", "addr-1"); !errors.Is(err, store.ErrAddressNotFound) {
		t.Errorf("Expected ErrAddressNotFound on second remove, got: %v", err)
	}
}

func TestListUserIds(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	for _, addr := range []models.Address{
		testAddress("a1", "user1", "Home"),
		testAddress("a2", "user1", "Work"),
		testAddress("b1", "user2", "Home"),
	} {
		if err := service.UpsertAddress(ctx, addr); err != nil {
			t.Fatalf("Failed to insert %s: %v", addr.Id, err)
		}
	}

	userIds, err := service.ListUserIds(ctx)
	if err != nil {
		t.Fatalf("ListUserIds failed: %v", err)
	}
	if len(userIds) != 2 {
		t.Fatalf("Expected 2 user ids, got %d", len(userIds))
	}
	if userIds[0] != "user1" || userIds[1] != "user2" {
		t.Errorf("Unexpected user ids: %v", userIds)
	}
}
