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

package models

import "time"

// Sync status of a cached address row.
const (
	SyncStatusSynced  = "synced"
	SyncStatusPending = "pending"
)

// Origin of an address id. Locally originated rows carry a generated UUID
// that the server has never seen; server rows carry the authoritative id.
const (
	OriginServer = "server"
	OriginLocal  = "local"
)

// Address represents one saved delivery location for a user.
type Address struct {
	Id         string    `db:"id"`
	UserId     string    `db:"user_id"`
	Title      string    `db:"title"`
	Address    string    `db:"address"`
	Latitude   float64   `db:"latitude"`
	Longitude  float64   `db:"longitude"`
	Type       string    `db:"type"`
	Notes      string    `db:"notes"`
	IsDefault  bool      `db:"is_default"`
	SyncStatus string    `db:"sync_status"`
	Origin     string    `db:"origin"`
	Deleted    bool      `db:"deleted"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// AddressParams contains the user-supplied fields for creating an address.
type AddressParams struct {
	Title     string
	Address   string
	Latitude  float64
	Longitude float64
	Type      string
	Notes     string
	IsDefault bool
}

// AddressPatch contains the fields of a partial address update.
// Nil fields are left untouched.
type AddressPatch struct {
	Title     *string
	Address   *string
	Latitude  *float64
	Longitude *float64
	Type      *string
	Notes     *string
	IsDefault *bool
}

// Apply merges the non-nil patch fields onto an address.
func (p AddressPatch) Apply(addr *Address) {
	if p.Title != nil {
		addr.Title = *p.Title
	}
	if p.Address != nil {
		addr.Address = *p.Address
	}
	if p.Latitude != nil {
		addr.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		addr.Longitude = *p.Longitude
	}
	if p.Type != nil {
		addr.Type = *p.Type
	}
	if p.Notes != nil {
		addr.Notes = *p.Notes
	}
	if p.IsDefault != nil {
		addr.IsDefault = *p.IsDefault
	}
}

// Place represents a known location returned by places search.
type Place struct {
	Id        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Address   string  `json:"address" yaml:"address"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}
