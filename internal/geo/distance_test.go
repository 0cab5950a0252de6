package geo

import (
	"math"
	"testing"

	"address-sync-go/internal/models"
)

func TestDistance_SamePoint(t *testing.T) {
	if d := Distance(4.8594, 31.5713, 4.8594, 31.5713); d != 0 {
		t.Errorf("Expected zero distance, got %f", d)
	}
}

func TestDistance_OneDegreeMeridian(t *testing.T) {
	// One degree of latitude along a meridian is about 111.19 km for a
	// 6371 km sphere.
	d := Distance(0, 0, 1, 0)
	if math.Abs(d-111.195) > 0.01 {
		t.Errorf("Expected about 111.195 km, got %f", d)
	}
}

func TestDistance_JubaLandmarks(t *testing.T) {
	// Juba Teaching Hospital to Juba International Airport.
	d := Distance(4.8440, 31.5890, 4.8721, 31.6011)
	if math.Abs(d-3.40) > 0.05 {
		t.Errorf("Expected about 3.40 km, got %f", d)
	}
}

func TestDistance_Symmetry(t *testing.T) {
	forward := Distance(4.8440, 31.5890, 4.8721, 31.6011)
	backward := Distance(4.8721, 31.6011, 4.8440, 31.5890)
	if math.Abs(forward-backward) > 1e-12 {
		t.Errorf("Distance not symmetric: %f vs %f", forward, backward)
	}
}

func TestSortPlacesByDistance(t *testing.T) {
	places := []models.Place{
		{Id: "airport", Latitude: 4.8721, Longitude: 31.6011},
		{Id: "market", Latitude: 4.8417, Longitude: 31.5978},
		{Id: "hospital", Latitude: 4.8440, Longitude: 31.5890},
	}

	// Sort from the hospital itself.
	SortPlacesByDistance(places, 4.8440, 31.5890)

	expected := []string{"hospital", "market", "airport"}
	for i, id := range expected {
		if places[i].Id != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, places[i].Id)
		}
	}
}
