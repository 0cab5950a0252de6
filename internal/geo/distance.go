package geo

import (
	"math"
	"sort"

	"address-sync-go/internal/models"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// coordinate pairs, computed with the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// SortPlacesByDistance orders places by ascending distance from the given
// point. The sort is stable so equidistant places keep their input order.
func SortPlacesByDistance(places []models.Place, lat, lng float64) {
	sort.SliceStable(places, func(i, j int) bool {
		di := Distance(lat, lng, places[i].Latitude, places[i].Longitude)
		dj := Distance(lat, lng, places[j].Latitude, places[j].Longitude)
		return di < dj
	})
}
