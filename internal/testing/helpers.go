package testing

import (
	"net/url"
	"testing"
	"time"

	"github.com/glefebvre/mediathek/internal/models"
	"github.com/google/uuid"
)

// FilmSpec holds the construction arguments of a test film
type FilmSpec struct {
	ID            uuid.UUID
	GeoLocations  []models.GeoLocation
	Sender        models.Sender
	Title         string
	Topic         string
	BroadcastTime time.Time
	Duration      time.Duration
	Website       string
	URLs          map[models.Quality]string
	Subtitles     []string
	Sizes         map[string]int64
	Description   string
	Options       []models.FilmOption
}

// CreateFilm builds a test film; overrides adjust the defaults before construction
func CreateFilm(t *testing.T, overrides ...func(*FilmSpec)) *models.Film {
	t.Helper()

	spec := &FilmSpec{
		ID:            uuid.New(),
		GeoLocations:  []models.GeoLocation{models.GeoDE},
		Sender:        models.SenderARD,
		Title:         "Tatort",
		Topic:         "Krimi",
		BroadcastTime: time.Date(2024, 3, 10, 20, 15, 0, 0, time.UTC),
		Duration:      88 * time.Minute,
		Website:       "https://www.ardmediathek.de/video/tatort",
		URLs: map[models.Quality]string{
			models.QualityNormal: "https://media.example.com/tatort_normal.mp4",
			models.QualityHD:     "https://media.example.com/tatort_hd.mp4",
		},
	}

	for _, override := range overrides {
		override(spec)
	}

	var website *url.URL
	if spec.Website != "" {
		website = MustParseURL(t, spec.Website)
	}

	film := models.NewFilm(spec.ID, spec.GeoLocations, spec.Sender, spec.Title, spec.Topic,
		spec.BroadcastTime, spec.Duration, website, spec.Options...)

	for quality, raw := range spec.URLs {
		film.AddURL(quality, models.NewFilmURL(MustParseURL(t, raw)))
	}
	for _, raw := range spec.Subtitles {
		film.AddSubtitle(MustParseURL(t, raw))
	}
	for raw, size := range spec.Sizes {
		AssertNoError(t, film.AddSize(MustParseURL(t, raw), size), "failed to add size")
	}
	if spec.Description != "" {
		film.SetDescription(spec.Description)
	}

	return film
}

// MustParseURL parses raw or fails the test
func MustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse url %q: %v", raw, err)
	}
	return u
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error, message string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", message, err)
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual[T comparable](t *testing.T, expected, actual T, message string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("%s: expected %v, got %v", message, expected, actual)
	}
}

// AssertNotNil fails the test if value is nil
func AssertNotNil(t *testing.T, value interface{}, message string) {
	t.Helper()
	if value == nil {
		t.Fatalf("%s: expected non-nil value", message)
	}
}

// WithID sets the film id
func WithID(id uuid.UUID) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.ID = id
	}
}

// WithSender sets the broadcaster
func WithSender(sender models.Sender) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.Sender = sender
	}
}

// WithTitleTopic sets title and topic
func WithTitleTopic(title, topic string) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.Title = title
		spec.Topic = topic
	}
}

// WithGeoLocations replaces the regions
func WithGeoLocations(geo ...models.GeoLocation) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.GeoLocations = geo
	}
}

// WithURLs replaces the playback locations
func WithURLs(urls map[models.Quality]string) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.URLs = urls
	}
}

// WithSubtitles sets the subtitle locations
func WithSubtitles(subtitles ...string) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.Subtitles = subtitles
	}
}

// WithSizes sets the file sizes
func WithSizes(sizes map[string]int64) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.Sizes = sizes
	}
}

// WithDescription sets the raw description
func WithDescription(raw string) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.Description = raw
	}
}

// WithBroadcastTime sets the broadcast time
func WithBroadcastTime(at time.Time) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.BroadcastTime = at
	}
}

// WithWebsite sets the website; empty means none
func WithWebsite(raw string) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.Website = raw
	}
}

// WithFilmOptions appends construction options
func WithFilmOptions(opts ...models.FilmOption) func(*FilmSpec) {
	return func(spec *FilmSpec) {
		spec.Options = append(spec.Options, opts...)
	}
}

// TableTest represents a table-driven test case
type TableTest[T any] struct {
	Name     string
	Input    T
	Expected interface{}
	WantErr  bool
}

// RunTableTests executes table-driven tests
func RunTableTests[T any](t *testing.T, tests []TableTest[T], testFn func(t *testing.T, tc TableTest[T])) {
	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			testFn(t, tc)
		})
	}
}
