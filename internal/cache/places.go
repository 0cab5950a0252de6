package cache

import (
	"context"
	"fmt"
	"strings"

	"address-sync-go/internal/geo"
	"address-sync-go/internal/models"

	"go.uber.org/zap"
)

// ReverseGeocode resolves coordinates to an address string. When the backend
// is unreachable a plain coordinate string is returned instead, never an
// error.
func (c *Cache) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	address, err := c.backend.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		zap.L().Debug("Reverse geocode failed, formatting coordinates",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err))
		return fmt.Sprintf("%.4f, %.4f", lat, lng)
	}
	return address
}

// SearchPlaces queries the backend for places near a point. When the backend
// is unreachable the known-places list is filtered by a case-insensitive
// substring match on name and address, ordered by distance from the point.
func (c *Cache) SearchPlaces(ctx context.Context, query string, lat, lng float64) []models.Place {
	places, err := c.backend.SearchPlaces(ctx, query, lat, lng)
	if err == nil {
		return places
	}

	zap.L().Debug("Places search failed, filtering known places",
		zap.String("query", query),
		zap.Error(err))

	needle := strings.ToLower(query)
	var matched []models.Place
	for _, place := range c.places {
		if strings.Contains(strings.ToLower(place.Name), needle) ||
			strings.Contains(strings.ToLower(place.Address), needle) {
			matched = append(matched, place)
		}
	}

	geo.SortPlacesByDistance(matched, lat, lng)
	return matched
}
