package common

import (
	"fmt"
	"os"
	"path/filepath"

	"address-sync-go/internal/models"

	"gopkg.in/yaml.v2"
)

type placesFile struct {
	Places []models.Place `yaml:"places"`
}

// LoadKnownPlaces reads the offline places-search fallback list from a YAML
// file. An empty path returns nil, which makes the cache fall back to its
// built-in list.
func LoadKnownPlaces(path string) ([]models.Place, error) {
	if path == "" {
		return nil, nil
	}

	var placesPath string
	if filepath.IsAbs(path) {
		placesPath = path
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		placesPath = filepath.Join(wd, path)
	}

	data, err := os.ReadFile(placesPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	var config placesFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", path, err)
	}

	for i, place := range config.Places {
		if place.Name == "" {
			return nil, fmt.Errorf("place at index %d missing name", i)
		}
		if place.Address == "" {
			return nil, fmt.Errorf("place at index %d missing address", i)
		}
	}

	return config.Places, nil
}
