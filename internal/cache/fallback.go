package cache

import "address-sync-go/internal/models"

// defaultKnownPlaces is the built-in offline search fallback: well-known
// Juba landmarks, used when no places file is configured.
var defaultKnownPlaces = []models.Place{
	{
		Id:        "juba-teaching-hospital",
		Name:      "Juba Teaching Hospital",
		Address:   "Unity Avenue, Juba",
		Latitude:  4.8440,
		Longitude: 31.5890,
	},
	{
		Id:        "juba-international-airport",
		Name:      "Juba International Airport",
		Address:   "Airport Road, Juba",
		Latitude:  4.8721,
		Longitude: 31.6011,
	},
	{
		Id:        "konyo-konyo-market",
		Name:      "Konyo Konyo Market",
		Address:   "Konyo Konyo, Juba",
		Latitude:  4.8417,
		Longitude: 31.5978,
	},
	{
		Id:        "university-of-juba",
		Name:      "University of Juba",
		Address:   "University Road, Juba",
		Latitude:  4.8290,
		Longitude: 31.5710,
	},
	{
		Id:        "custom-market",
		Name:      "Custom Market",
		Address:   "Custom, Juba",
		Latitude:  4.8610,
		Longitude: 31.5770,
	},
	{
		Id:        "juba-town-post-office",
		Name:      "Juba Town Post Office",
		Address:   "May Street, Juba Town",
		Latitude:  4.8510,
		Longitude: 31.5820,
	},
}
