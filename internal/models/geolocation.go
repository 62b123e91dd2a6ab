package models

import (
	"strings"

	"github.com/glefebvre/mediathek/internal/errors"
)

// GeoLocation is a region a film may be played back in
type GeoLocation string

const (
	GeoDE   GeoLocation = "DE"
	GeoAT   GeoLocation = "AT"
	GeoCH   GeoLocation = "CH"
	GeoEU   GeoLocation = "EU"
	GeoWelt GeoLocation = "WELT"
)

var geoLocations = []GeoLocation{GeoDE, GeoAT, GeoCH, GeoEU, GeoWelt}

// GeoLocations returns all known regions in declaration order
func GeoLocations() []GeoLocation {
	return append([]GeoLocation(nil), geoLocations...)
}

// Ordinal returns the position of the region, or -1 for unknown values
func (g GeoLocation) Ordinal() int {
	for i, candidate := range geoLocations {
		if candidate == g {
			return i
		}
	}
	return -1
}

// Valid reports whether g is one of the known regions
func (g GeoLocation) Valid() bool {
	return g.Ordinal() >= 0
}

func (g GeoLocation) String() string {
	return string(g)
}

// ParseGeoLocation parses a region code, ignoring case
func ParseGeoLocation(s string) (GeoLocation, error) {
	g := GeoLocation(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", errors.InvalidInputError("geo_location", s)
	}
	return g, nil
}
