package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"address-sync-go/internal/models"
	"address-sync-go/internal/store"

	"go.uber.org/zap"
)

func scanAddress(scan func(dest ...any) error) (models.Address, error) {
	var addr models.Address
	err := scan(&addr.Id, &addr.UserId, &addr.Title, &addr.Address,
		&addr.Latitude, &addr.Longitude, &addr.Type, &addr.Notes,
		&addr.IsDefault, &addr.SyncStatus, &addr.Origin, &addr.Deleted,
		&addr.CreatedAt, &addr.UpdatedAt)
	return addr, err
}

func (s *Service) GetUserAddresses(ctx context.Context, userId string) ([]models.Address, error) {
	zap.L().Debug("Querying addresses", zap.String("user_id", userId))

	rows, err := s.db.QueryContext(ctx, queryGetUserAddresses, userId)
	if err != nil {
		zap.L().Error("Failed to query addresses",
			zap.String("user_id", userId),
			zap.Error(err))
		return nil, fmt.Errorf("unable to query addresses: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var addresses []models.Address
	for rows.Next() {
		addr, err := scanAddress(rows.Scan)
		if err != nil {
			zap.L().Error("Failed to scan address row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan address row: %w", err)
		}
		addresses = append(addresses, addr)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during address row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating address rows: %w", err)
	}

	zap.L().Debug("Retrieved addresses",
		zap.String("user_id", userId),
		zap.Int("count", len(addresses)))
	return addresses, nil
}

func (s *Service) GetAddress(ctx context.Context, userId, addressId string) (*models.Address, error) {
	addr, err := scanAddress(s.db.QueryRowContext(ctx, queryGetAddress, userId, addressId).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAddressNotFound
		}
		zap.L().Error("Failed to query address",
			zap.String("user_id", userId),
			zap.String("address_id", addressId),
			zap.Error(err))
		return nil, fmt.Errorf("unable to query address: %w", err)
	}
	return &addr, nil
}

func (s *Service) GetPendingAddresses(ctx context.Context, userId string) ([]models.Address, error) {
	rows, err := s.db.QueryContext(ctx, queryGetPendingAddresses, userId)
	if err != nil {
		zap.L().Error("Failed to query pending addresses",
			zap.String("user_id", userId),
			zap.Error(err))
		return nil, fmt.Errorf("unable to query pending addresses: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var addresses []models.Address
	for rows.Next() {
		addr, err := scanAddress(rows.Scan)
		if err != nil {
			zap.L().Error("Failed to scan address row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan address row: %w", err)
		}
		addresses = append(addresses, addr)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during address row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating address rows: %w", err)
	}

	zap.L().Debug("Retrieved pending addresses",
		zap.String("user_id", userId),
		zap.Int("count", len(addresses)))
	return addresses, nil
}

func (s *Service) UpsertAddress(ctx context.Context, addr models.Address) error {
	if addr.UpdatedAt.IsZero() {
		addr.UpdatedAt = time.Now().UTC()
	}
	if addr.CreatedAt.IsZero() {
		addr.CreatedAt = addr.UpdatedAt
	}

	_, err := s.db.ExecContext(ctx, queryUpsertAddress,
		addr.Id, addr.UserId, addr.Title, addr.Address,
		addr.Latitude, addr.Longitude, addr.Type, addr.Notes,
		addr.IsDefault, addr.SyncStatus, addr.Origin, addr.Deleted,
		addr.CreatedAt, addr.UpdatedAt)
	if err != nil {
		zap.L().Error("Failed to upsert address",
			zap.String("user_id", addr.UserId),
			zap.String("address_id", addr.Id),
			zap.Error(err))
		return fmt.Errorf("unable to upsert address: %w", err)
	}
	return nil
}

func (s *Service) RemoveAddress(ctx context.Context, userId, addressId string) error {
	result, err := s.db.ExecContext(ctx, queryRemoveAddress, userId, addressId)
	if err != nil {
		zap.L().Error("Failed to remove address",
			zap.String("user_id", userId),
			zap.String("address_id", addressId),
			zap.Error(err))
		return fmt.Errorf("unable to remove address: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrAddressNotFound
	}

	zap.L().Debug("Removed address",
		zap.String("user_id", userId),
		zap.String("address_id", addressId))
	return nil
}

// ReplaceUserAddresses swaps the entire cached collection for the user in a
// single transaction so a failed fetch persist cannot leave a half-written
// collection behind.
func (s *Service) ReplaceUserAddresses(ctx context.Context, userId string, addresses []models.Address, defaultAddressId string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to rollback transaction", zap.Error(err))
		}
	}()

	if _, err := tx.ExecContext(ctx, queryRemoveUserAddresses, userId); err != nil {
		return fmt.Errorf("unable to clear addresses: %w", err)
	}

	now := time.Now().UTC()
	for _, addr := range addresses {
		createdAt := addr.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		_, err := tx.ExecContext(ctx, queryUpsertAddress,
			addr.Id, userId, addr.Title, addr.Address,
			addr.Latitude, addr.Longitude, addr.Type, addr.Notes,
			addr.Id == defaultAddressId, addr.SyncStatus, addr.Origin, addr.Deleted,
			createdAt, now)
		if err != nil {
			return fmt.Errorf("unable to insert address %s: %w", addr.Id, err)
		}
	}

	if defaultAddressId != "" {
		if _, err := tx.ExecContext(ctx, querySetDefaultPointer, userId, defaultAddressId); err != nil {
			return fmt.Errorf("unable to set default pointer: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, queryRemoveDefaultPointer, userId); err != nil {
			return fmt.Errorf("unable to clear default pointer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit transaction: %w", err)
	}

	zap.L().Debug("Replaced cached addresses",
		zap.String("user_id", userId),
		zap.Int("count", len(addresses)),
		zap.String("default_address_id", defaultAddressId))
	return nil
}

// SetDefaultAddress writes the default pointer and rewrites every cached
// row's is_default flag in one transaction, so at most one row per user
// carries the flag.
func (s *Service) SetDefaultAddress(ctx context.Context, userId, addressId string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to rollback transaction", zap.Error(err))
		}
	}()

	if _, err := tx.ExecContext(ctx, querySetDefaultPointer, userId, addressId); err != nil {
		return fmt.Errorf("unable to set default pointer: %w", err)
	}
	if _, err := tx.ExecContext(ctx, queryRewriteDefaultFlags, addressId, userId); err != nil {
		return fmt.Errorf("unable to rewrite default flags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit transaction: %w", err)
	}

	zap.L().Debug("Set default address",
		zap.String("user_id", userId),
		zap.String("address_id", addressId))
	return nil
}

func (s *Service) GetDefaultAddressId(ctx context.Context, userId string) (string, error) {
	var addressId string
	err := s.db.QueryRowContext(ctx, queryGetDefaultPointer, userId).Scan(&addressId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNoDefaultSet
		}
		zap.L().Error("Failed to query default pointer",
			zap.String("user_id", userId),
			zap.Error(err))
		return "", fmt.Errorf("unable to query default pointer: %w", err)
	}
	return addressId, nil
}

func (s *Service) ListUserIds(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, queryListUserIds)
	if err != nil {
		zap.L().Error("Failed to list user ids", zap.Error(err))
		return nil, fmt.Errorf("unable to list user ids: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var userIds []string
	for rows.Next() {
		var userId string
		if err := rows.Scan(&userId); err != nil {
			return nil, fmt.Errorf("unable to scan user id: %w", err)
		}
		userIds = append(userIds, userId)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user ids: %w", err)
	}

	return userIds, nil
}
