package api

import (
	"fmt"
	"net/url"
	"time"

	"github.com/glefebvre/mediathek/internal/description"
	"github.com/glefebvre/mediathek/internal/errors"
	"github.com/glefebvre/mediathek/internal/models"
	"github.com/google/uuid"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NormalizeRequest represents a description normalization request
type NormalizeRequest struct {
	Description string `json:"description"`
	Title       string `json:"title"`
	Topic       string `json:"topic"`
}

// NormalizeResponse represents a normalized description
type NormalizeResponse struct {
	Description string   `json:"description"`
	Truncated   bool     `json:"truncated"`
	Applied     []string `json:"applied_steps"`
}

// FilmRequest represents the fields a film is built from
type FilmRequest struct {
	ID              string            `json:"id,omitempty"`
	Sender          string            `json:"sender" binding:"required"`
	Title           string            `json:"title"`
	Topic           string            `json:"topic"`
	BroadcastTime   *time.Time        `json:"broadcast_time,omitempty"`
	DurationSeconds int64             `json:"duration_seconds"`
	Website         string            `json:"website,omitempty"`
	GeoLocations    []string          `json:"geo_locations,omitempty"`
	URLs            map[string]string `json:"urls,omitempty"`
	Subtitles       []string          `json:"subtitles,omitempty"`
	Sizes           map[string]int64  `json:"sizes,omitempty"`
	Description     string            `json:"description,omitempty"`
	New             bool              `json:"new"`
}

// FilmResponse represents a built film
type FilmResponse struct {
	ID              string            `json:"id"`
	Sender          string            `json:"sender"`
	Title           string            `json:"title"`
	Topic           string            `json:"topic"`
	BroadcastTime   string            `json:"broadcast_time"`
	DurationSeconds int64             `json:"duration_seconds"`
	Website         string            `json:"website,omitempty"`
	GeoLocations    []string          `json:"geo_locations"`
	URLs            map[string]string `json:"urls"`
	Subtitles       []string          `json:"subtitles"`
	Sizes           map[string]int64  `json:"sizes"`
	Description     string            `json:"description"`
	New             bool              `json:"new"`
	IndexKey        string            `json:"index_key"`
	Hash            string            `json:"hash"`
	HasHD           bool              `json:"has_hd"`
	HasSubtitles    bool              `json:"has_subtitles"`
}

// CompareRequest represents two films to compare
type CompareRequest struct {
	Left  FilmRequest `json:"left"`
	Right FilmRequest `json:"right"`
}

// CompareResponse represents the outcome of a comparison
type CompareResponse struct {
	Equal     bool   `json:"equal"`
	LeftHash  string `json:"left_hash"`
	RightHash string `json:"right_hash"`
}

// toFilm validates the request and builds the film it describes
func (r FilmRequest) toFilm(pipeline *description.Pipeline) (*models.Film, error) {
	id := uuid.New()
	if r.ID != "" {
		parsed, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, errors.InvalidInputError("id", r.ID)
		}
		id = parsed
	}

	sender, err := models.ParseSender(r.Sender)
	if err != nil {
		return nil, err
	}

	geo := make([]models.GeoLocation, 0, len(r.GeoLocations))
	for _, code := range r.GeoLocations {
		g, err := models.ParseGeoLocation(code)
		if err != nil {
			return nil, err
		}
		geo = append(geo, g)
	}

	var website *url.URL
	if r.Website != "" {
		website, err = models.ParseLocation("website", r.Website)
		if err != nil {
			return nil, err
		}
	}

	if r.DurationSeconds < 0 {
		return nil, errors.ValidationError(fmt.Sprintf("duration_seconds must not be negative, got %d", r.DurationSeconds))
	}

	var broadcast time.Time
	if r.BroadcastTime != nil {
		broadcast = *r.BroadcastTime
	}

	film := models.NewFilm(id, geo, sender, r.Title, r.Topic, broadcast,
		time.Duration(r.DurationSeconds)*time.Second, website, models.WithNormalizer(pipeline))

	for name, raw := range r.URLs {
		quality, err := models.ParseQuality(name)
		if err != nil {
			return nil, err
		}
		location, err := models.ParseFilmURL(raw)
		if err != nil {
			return nil, err
		}
		film.AddURL(quality, location)
	}

	for _, raw := range r.Subtitles {
		u, err := models.ParseLocation("subtitle", raw)
		if err != nil {
			return nil, err
		}
		film.AddSubtitle(u)
	}

	for raw, size := range r.Sizes {
		u, err := models.ParseLocation("size url", raw)
		if err != nil {
			return nil, err
		}
		if err := film.AddSize(u, size); err != nil {
			return nil, err
		}
	}

	film.SetDescription(r.Description)
	film.SetNew(r.New)

	return film, nil
}

func toFilmResponse(f *models.Film) FilmResponse {
	resp := FilmResponse{
		ID:              f.ID().String(),
		Sender:          f.Sender().String(),
		Title:           f.Title(),
		Topic:           f.Topic(),
		DurationSeconds: int64(f.Duration() / time.Second),
		GeoLocations:    make([]string, 0),
		URLs:            make(map[string]string),
		Subtitles:       make([]string, 0),
		Sizes:           f.Sizes(),
		Description:     f.Description(),
		New:             f.IsNew(),
		IndexKey:        f.IndexKey(),
		Hash:            formatHash(f.Hash()),
		HasHD:           f.HasHD(),
		HasSubtitles:    f.HasSubtitles(),
	}

	if !f.BroadcastTime().IsZero() {
		resp.BroadcastTime = f.BroadcastTime().Format(time.RFC3339)
	}
	if website := f.Website(); website != nil {
		resp.Website = website.String()
	}
	for _, g := range f.GeoLocations() {
		resp.GeoLocations = append(resp.GeoLocations, g.String())
	}
	for q, u := range f.URLs() {
		resp.URLs[q.String()] = u.String()
	}
	for _, u := range f.Subtitles() {
		resp.Subtitles = append(resp.Subtitles, u.String())
	}

	return resp
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}
