package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"address-sync-go/internal/cache"
	"address-sync-go/internal/database"
	"address-sync-go/internal/models"
	"address-sync-go/internal/store"
)

// countingBackend records creates; everything else succeeds trivially.
type countingBackend struct {
	createCalls int
}

func (b *countingBackend) FetchAddresses(context.Context, string) ([]models.Address, string, error) {
	return nil, "", nil
}

func (b *countingBackend) CreateAddress(_ context.Context, userId string, params models.AddressParams) (*models.Address, error) {
	b.createCalls++
	return &models.Address{
		Id:         "srv-1",
		UserId:     userId,
		Title:      params.Title,
		SyncStatus: models.SyncStatusSynced,
		Origin:     models.OriginServer,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (b *countingBackend) UpdateAddress(_ context.Context, userId, addressId string, patch models.AddressPatch) (*models.Address, error) {
	addr := models.Address{Id: addressId, UserId: userId}
	patch.Apply(&addr)
	return &addr, nil
}

func (b *countingBackend) DeleteAddress(context.Context, string) error { return nil }

func (b *countingBackend) SetDefaultAddress(context.Context, string) error { return nil }

func (b *countingBackend) FetchDefaultAddress(context.Context, string) (*models.Address, error) {
	return nil, errors.New("no default")
}

func (b *countingBackend) ReverseGeocode(context.Context, float64, float64) (string, error) {
	return "", errors.New("unavailable")
}

func (b *countingBackend) SearchPlaces(context.Context, string, float64, float64) ([]models.Place, error) {
	return nil, errors.New("unavailable")
}

func setupSyncer(t *testing.T, backend cache.Backend) (*Syncer, store.AddressStore, func()) {
	t.Helper()

	storeService, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}

	c := cache.New(cache.Config{Backend: backend, Store: storeService})
	s := New(Config{Cache: c, Store: storeService, Interval: time.Hour})
	return s, storeService, storeService.Close
}

func TestStart_RunsInitialDrain(t *testing.T) {
	backend := &countingBackend{}
	s, st, cleanup := setupSyncer(t, backend)
	defer cleanup()

	ctx := context.Background()

	// A row created while the process was down.
	pending := models.Address{
		Id:         "local-1",
		UserId:     "user1",
		Title:      "Home",
		SyncStatus: models.SyncStatusPending,
		Origin:     models.OriginLocal,
	}
	if err := st.UpsertAddress(ctx, pending); err != nil {
		t.Fatalf("Failed to seed pending row: %v", err)
	}

	// The initial drain is synchronous, so the row is synced once Start
	// returns. The hour-long interval keeps the ticker out of the test.
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	if backend.createCalls != 1 {
		t.Errorf("Expected one remote create during the initial drain, got %d", backend.createCalls)
	}

	synced, err := st.GetAddress(ctx, "user1", "srv-1")
	if err != nil {
		t.Fatalf("Expected the server row in the cache: %v", err)
	}
	if synced.SyncStatus != models.SyncStatusSynced {
		t.Errorf("Expected synced status, got %s", synced.SyncStatus)
	}
	if _, err := st.GetAddress(ctx, "user1", "local-1"); !errors.Is(err, store.ErrAddressNotFound) {
		t.Errorf("Expected the local row replaced, got: %v", err)
	}
}

func TestStop_WaitsForLoop(t *testing.T) {
	s, _, cleanup := setupSyncer(t, &countingBackend{})
	defer cleanup()

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
