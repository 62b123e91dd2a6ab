package models

import (
	"net/url"

	"github.com/glefebvre/mediathek/internal/errors"
)

// FilmURL is a playback location. The zero value is absent.
type FilmURL struct {
	raw string
}

// NewFilmURL wraps u; nil gives the absent location
func NewFilmURL(u *url.URL) FilmURL {
	if u == nil {
		return FilmURL{}
	}
	return FilmURL{raw: u.String()}
}

// ParseFilmURL parses an absolute URI
func ParseFilmURL(s string) (FilmURL, error) {
	u, err := ParseLocation("film_url", s)
	if err != nil {
		return FilmURL{}, err
	}
	return NewFilmURL(u), nil
}

// ParseLocation parses an absolute URI given for the named field. Relative
// and unparsable values are invalid input.
func ParseLocation(field, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return nil, errors.InvalidInputError(field, raw)
	}
	return u, nil
}

// IsZero reports whether the location is absent
func (u FilmURL) IsZero() bool {
	return u.raw == ""
}

// URL returns a freshly parsed copy, or nil when absent
func (u FilmURL) URL() *url.URL {
	if u.IsZero() {
		return nil
	}
	parsed, err := url.Parse(u.raw)
	if err != nil {
		return nil
	}
	return parsed
}

func (u FilmURL) String() string {
	return u.raw
}
