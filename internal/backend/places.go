package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"address-sync-go/internal/models"

	"go.uber.org/zap"
)

// searchRadiusMeters is the fixed radius sent with every places search.
const searchRadiusMeters = 10000

// ReverseGeocode resolves coordinates to a human-readable address string.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))

	var response struct {
		Address string `json:"address"`
	}
	if err := c.do(ctx, http.MethodGet, "/utils/reverse-geocode/", query, nil, &response); err != nil {
		return "", fmt.Errorf("unable to reverse geocode: %w", err)
	}

	return response.Address, nil
}

// SearchPlaces queries the backend's places search around a point.
func (c *Client) SearchPlaces(ctx context.Context, searchQuery string, lat, lng float64) ([]models.Place, error) {
	query := url.Values{}
	query.Set("query", searchQuery)
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("radius", strconv.Itoa(searchRadiusMeters))

	var response struct {
		Places []models.Place `json:"places"`
	}
	if err := c.do(ctx, http.MethodGet, "/utils/places-search/", query, nil, &response); err != nil {
		return nil, fmt.Errorf("unable to search places: %w", err)
	}

	zap.L().Debug("Places search completed",
		zap.String("query", searchQuery),
		zap.Int("count", len(response.Places)))
	return response.Places, nil
}
