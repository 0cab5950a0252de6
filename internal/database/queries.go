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

package database

const (
	// Address queries
	queryGetUserAddresses = `
		SELECT id, user_id, title, address, latitude, longitude, type, notes,
		       is_default, sync_status, origin, deleted, created_at, updated_at
		FROM addresses
		WHERE user_id = ?
		ORDER BY created_at, id`

	queryGetAddress = `
		SELECT id, user_id, title, address, latitude, longitude, type, notes,
		       is_default, sync_status, origin, deleted, created_at, updated_at
		FROM addresses
		WHERE user_id = ? AND id = ?`

	queryGetPendingAddresses = `
		SELECT id, user_id, title, address, latitude, longitude, type, notes,
		       is_default, sync_status, origin, deleted, created_at, updated_at
		FROM addresses
		WHERE user_id = ? AND sync_status = 'pending'
		ORDER BY created_at, id`

	queryUpsertAddress = `
		INSERT INTO addresses (
			id, user_id, title, address, latitude, longitude, type, notes,
			is_default, sync_status, origin, deleted, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			address = excluded.address,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			type = excluded.type,
			notes = excluded.notes,
			is_default = excluded.is_default,
			sync_status = excluded.sync_status,
			origin = excluded.origin,
			deleted = excluded.deleted,
			updated_at = excluded.updated_at`

	queryRemoveAddress = `
		DELETE FROM addresses WHERE user_id = ? AND id = ?`

	queryRemoveUserAddresses = `
		DELETE FROM addresses WHERE user_id = ?`

	// Default pointer queries
	querySetDefaultPointer = `
		INSERT INTO default_addresses (user_id, address_id)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET address_id = excluded.address_id`

	queryRewriteDefaultFlags = `
		UPDATE addresses SET is_default = (id = ?) WHERE user_id = ?`

	queryGetDefaultPointer = `
		SELECT address_id FROM default_addresses WHERE user_id = ?`

	queryRemoveDefaultPointer = `
		DELETE FROM default_addresses WHERE user_id = ?`

	// User queries
	queryListUserIds = `
		SELECT DISTINCT user_id FROM addresses ORDER BY user_id`
)
