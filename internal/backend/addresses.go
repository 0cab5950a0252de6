package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"address-sync-go/internal/models"

	"go.uber.org/zap"
)

// wireAddress is the backend's JSON representation of an address.
type wireAddress struct {
	Id        string  `json:"id"`
	Title     string  `json:"title"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Type      string  `json:"type"`
	Notes     string  `json:"notes"`
	IsDefault bool    `json:"is_default"`
	CreatedAt string  `json:"created_at"`
}

func (w wireAddress) toModel(userId string) models.Address {
	addr := models.Address{
		Id:         w.Id,
		UserId:     userId,
		Title:      w.Title,
		Address:    w.Address,
		Latitude:   w.Latitude,
		Longitude:  w.Longitude,
		Type:       w.Type,
		Notes:      w.Notes,
		IsDefault:  w.IsDefault,
		SyncStatus: models.SyncStatusSynced,
		Origin:     models.OriginServer,
	}
	if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		addr.CreatedAt = t
	}
	return addr
}

type createAddressRequest struct {
	Title     string  `json:"title"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Type      string  `json:"type"`
	Notes     string  `json:"notes"`
	IsDefault bool    `json:"is_default"`
}

type patchAddressRequest struct {
	Title     *string  `json:"title,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
	IsDefault *bool    `json:"is_default,omitempty"`
}

// FetchAddresses retrieves the user's full address collection.
func (c *Client) FetchAddresses(ctx context.Context, userId string) ([]models.Address, string, error) {
	var response struct {
		Addresses        []wireAddress `json:"addresses"`
		DefaultAddressId string        `json:"default_address_id"`
	}

	if err := c.do(ctx, http.MethodGet, "/user/delivery-addresses/", nil, nil, &response); err != nil {
		return nil, "", fmt.Errorf("unable to fetch addresses: %w", err)
	}

	addresses := make([]models.Address, len(response.Addresses))
	for i, w := range response.Addresses {
		addresses[i] = w.toModel(userId)
	}

	zap.L().Debug("Fetched addresses from backend",
		zap.String("user_id", userId),
		zap.Int("count", len(addresses)))
	return addresses, response.DefaultAddressId, nil
}

// CreateAddress creates a new address server-side and returns the
// authoritative representation.
func (c *Client) CreateAddress(ctx context.Context, userId string, params models.AddressParams) (*models.Address, error) {
	body := createAddressRequest{
		Title:     params.Title,
		Address:   params.Address,
		Latitude:  params.Latitude,
		Longitude: params.Longitude,
		Type:      params.Type,
		Notes:     params.Notes,
		IsDefault: params.IsDefault,
	}

	var created wireAddress
	if err := c.do(ctx, http.MethodPost, "/user/delivery-addresses/", nil, body, &created); err != nil {
		return nil, fmt.Errorf("unable to create address: %w", err)
	}

	addr := created.toModel(userId)
	zap.L().Info("Address created on backend",
		zap.String("user_id", userId),
		zap.String("address_id", addr.Id))
	return &addr, nil
}

// UpdateAddress applies a partial update server-side.
func (c *Client) UpdateAddress(ctx context.Context, userId, addressId string, patch models.AddressPatch) (*models.Address, error) {
	body := patchAddressRequest{
		Title:     patch.Title,
		Address:   patch.Address,
		Latitude:  patch.Latitude,
		Longitude: patch.Longitude,
		Type:      patch.Type,
		Notes:     patch.Notes,
		IsDefault: patch.IsDefault,
	}

	var updated wireAddress
	path := fmt.Sprintf("/user/delivery-addresses/%s/", addressId)
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &updated); err != nil {
		return nil, fmt.Errorf("unable to update address: %w", err)
	}

	addr := updated.toModel(userId)
	return &addr, nil
}

// DeleteAddress removes an address server-side.
func (c *Client) DeleteAddress(ctx context.Context, addressId string) error {
	path := fmt.Sprintf("/user/delivery-addresses/%s/", addressId)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("unable to delete address: %w", err)
	}
	return nil
}

// SetDefaultAddress marks an address as the user's default server-side.
func (c *Client) SetDefaultAddress(ctx context.Context, addressId string) error {
	path := fmt.Sprintf("/user/delivery-addresses/%s/set-default/", addressId)
	if err := c.do(ctx, http.MethodPatch, path, nil, nil, nil); err != nil {
		return fmt.Errorf("unable to set default address: %w", err)
	}
	return nil
}

// FetchDefaultAddress retrieves the user's default address.
func (c *Client) FetchDefaultAddress(ctx context.Context, userId string) (*models.Address, error) {
	var w wireAddress
	if err := c.do(ctx, http.MethodGet, "/user/delivery-addresses/default/", nil, nil, &w); err != nil {
		return nil, fmt.Errorf("unable to fetch default address: %w", err)
	}

	addr := w.toModel(userId)
	return &addr, nil
}
