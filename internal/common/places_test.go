package common

import (
	"os"
	"path/filepath"
	"testing"
)

func writePlacesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write places file: %v", err)
	}
	return path
}

func TestLoadKnownPlaces(t *testing.T) {
	path := writePlacesFile(t, `places:
  - id: hospital
    name: Juba Teaching Hospital
    address: Hospital Road, Juba
    latitude: 4.8440
    longitude: 31.5890
  - id: airport
    name: Juba International Airport
    address: Airport Road, Juba
    latitude: 4.8721
    longitude: 31.6011
`)

	places, err := LoadKnownPlaces(path)
	if err != nil {
		t.Fatalf("LoadKnownPlaces failed: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("Expected 2 places, got %d", len(places))
	}
	if places[0].Name != "Juba Teaching Hospital" {
		t.Errorf("Unexpected first place: %s", places[0].Name)
	}
	if places[1].Latitude != 4.8721 {
		t.Errorf("Unexpected latitude: %f", places[1].Latitude)
	}
}

func TestLoadKnownPlaces_EmptyPath(t *testing.T) {
	places, err := LoadKnownPlaces("")
	if err != nil {
		t.Fatalf("Expected nil error for empty path, got: %v", err)
	}
	if places != nil {
		t.Errorf("Expected nil places for empty path, got %v", places)
	}
}

func TestLoadKnownPlaces_MissingFile(t *testing.T) {
	if _, err := LoadKnownPlaces(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestLoadKnownPlaces_MissingName(t *testing.T) {
	path := writePlacesFile(t, `places:
  - id: nameless
    address: Somewhere, Juba
`)
	if _, err := LoadKnownPlaces(path); err == nil {
		t.Fatal("Expected a validation error for a place without a name")
	}
}

func TestLoadKnownPlaces_InvalidYaml(t *testing.T) {
	path := writePlacesFile(t, "places: [unclosed")
	if _, err := LoadKnownPlaces(path); err == nil {
		t.Fatal("Expected a parse error for invalid YAML")
	}
}
