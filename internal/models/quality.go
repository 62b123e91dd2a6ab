package models

import (
	"strings"

	"github.com/glefebvre/mediathek/internal/errors"
)

// Quality is the resolution tier of a playback location
type Quality string

const (
	QualityLow    Quality = "low"
	QualityNormal Quality = "normal"
	QualityHD     Quality = "hd"
)

var qualities = []Quality{QualityLow, QualityNormal, QualityHD}

// Qualities returns all tiers from lowest to highest
func Qualities() []Quality {
	return append([]Quality(nil), qualities...)
}

// Ordinal returns the position of the tier, or -1 for unknown values
func (q Quality) Ordinal() int {
	for i, candidate := range qualities {
		if candidate == q {
			return i
		}
	}
	return -1
}

// Valid reports whether q is one of the known tiers
func (q Quality) Valid() bool {
	return q.Ordinal() >= 0
}

func (q Quality) String() string {
	return string(q)
}

// ParseQuality parses a tier name, ignoring case
func ParseQuality(s string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(s)))
	if !q.Valid() {
		return "", errors.InvalidInputError("quality", s)
	}
	return q, nil
}
