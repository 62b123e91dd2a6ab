package models

import (
	"encoding/binary"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/glefebvre/mediathek/internal/description"
	"github.com/glefebvre/mediathek/internal/errors"
	"github.com/google/uuid"
)

// Film is one catalogued media item of a broadcaster's listing.
//
// A Film is not safe for concurrent use; the caller owns it.
type Film struct {
	id            uuid.UUID
	sender        Sender
	title         string
	topic         string
	broadcastTime time.Time
	duration      time.Duration
	website       *url.URL

	urls         map[Quality]FilmURL
	geoLocations []GeoLocation
	sizes        map[string]int64
	subtitles    []*url.URL

	description string
	isNew       bool

	normalizer *description.Pipeline
}

// FilmOption configures a Film at construction
type FilmOption func(*Film)

// WithNormalizer sets the pipeline SetDescription runs raw text through
func WithNormalizer(p *description.Pipeline) FilmOption {
	return func(f *Film) {
		if p != nil {
			f.normalizer = p
		}
	}
}

// NewFilm creates a film with its identity fields. Title and topic are
// reduced to plain text once, here.
func NewFilm(
	id uuid.UUID,
	geo []GeoLocation,
	sender Sender,
	title, topic string,
	broadcastTime time.Time,
	duration time.Duration,
	website *url.URL,
	opts ...FilmOption,
) *Film {
	f := &Film{
		id:            id,
		sender:        sender,
		title:         description.PlainText(title),
		topic:         description.PlainText(topic),
		broadcastTime: broadcastTime,
		duration:      duration,
		website:       cloneURL(website),
		urls:          make(map[Quality]FilmURL),
		geoLocations:  geoSet(geo),
		sizes:         make(map[string]int64),
		normalizer:    description.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Film) ID() uuid.UUID            { return f.id }
func (f *Film) Sender() Sender           { return f.sender }
func (f *Film) Title() string            { return f.title }
func (f *Film) Topic() string            { return f.topic }
func (f *Film) BroadcastTime() time.Time { return f.broadcastTime }
func (f *Film) Duration() time.Duration  { return f.duration }
func (f *Film) Description() string      { return f.description }
func (f *Film) IsNew() bool              { return f.isNew }

// Website returns a copy of the film's page, or nil
func (f *Film) Website() *url.URL {
	return cloneURL(f.website)
}

// SetNew marks whether the film is new since the last listing
func (f *Film) SetNew(isNew bool) {
	f.isNew = isNew
}

// SetDescription normalizes raw and stores the result
func (f *Film) SetDescription(raw string) {
	f.description = f.normalizer.Normalize(raw, f.title, f.topic)
}

// AddURL records the playback location for a quality tier, replacing any
// earlier one. Unknown tiers and absent locations are ignored.
func (f *Film) AddURL(quality Quality, location FilmURL) {
	if !quality.Valid() || location.IsZero() {
		return
	}
	f.urls[quality] = location
}

// URL returns the playback location recorded for quality
func (f *Film) URL(quality Quality) (*url.URL, error) {
	location, ok := f.urls[quality]
	if !ok {
		return nil, errors.MissingValueError("url", quality.String())
	}
	return location.URL(), nil
}

// URLs returns a copy of the recorded playback locations
func (f *Film) URLs() map[Quality]FilmURL {
	urls := make(map[Quality]FilmURL, len(f.urls))
	for q, u := range f.urls {
		urls[q] = u
	}
	return urls
}

// HasHD reports whether an HD location is recorded
func (f *Film) HasHD() bool {
	_, ok := f.urls[QualityHD]
	return ok
}

// AddSubtitle appends a subtitle location. Nil is ignored.
func (f *Film) AddSubtitle(u *url.URL) {
	if u == nil {
		return
	}
	f.subtitles = append(f.subtitles, cloneURL(u))
}

// Subtitles returns copies of the subtitle locations in insertion order
func (f *Film) Subtitles() []*url.URL {
	subtitles := make([]*url.URL, len(f.subtitles))
	for i, u := range f.subtitles {
		subtitles[i] = cloneURL(u)
	}
	return subtitles
}

// HasSubtitles reports whether any subtitle location is recorded
func (f *Film) HasSubtitles() bool {
	return len(f.subtitles) > 0
}

// AddSize records the size in bytes of the file at u
func (f *Film) AddSize(u *url.URL, size int64) error {
	if u == nil {
		return errors.ValidationError("size requires a location")
	}
	if size < 0 {
		return errors.ValidationError(fmt.Sprintf("size must not be negative, got %d", size)).
			WithContext("url", u.String())
	}
	f.sizes[u.String()] = size
	return nil
}

// Size returns the size recorded for u
func (f *Film) Size(u *url.URL) (int64, error) {
	if u == nil {
		return 0, errors.MissingValueError("size", "<nil>")
	}
	size, ok := f.sizes[u.String()]
	if !ok {
		return 0, errors.MissingValueError("size", u.String())
	}
	return size, nil
}

// Sizes returns a copy of the recorded sizes keyed by location
func (f *Film) Sizes() map[string]int64 {
	sizes := make(map[string]int64, len(f.sizes))
	for k, v := range f.sizes {
		sizes[k] = v
	}
	return sizes
}

// GeoLocations returns the regions the film is restricted to, ordered by ordinal
func (f *Film) GeoLocations() []GeoLocation {
	return append([]GeoLocation(nil), f.geoLocations...)
}

// IndexKey is the catalogue lookup key: title, topic and the location of the
// lowest recorded quality tier.
func (f *Film) IndexKey() string {
	var b strings.Builder
	b.WriteString(f.title)
	b.WriteString(f.topic)
	for _, q := range qualities {
		if location, ok := f.urls[q]; ok {
			b.WriteString(location.String())
			break
		}
	}
	return b.String()
}

// Equal compares the content fields. Identity, broadcast time, website,
// description and the new flag are not part of it.
func (f *Film) Equal(other *Film) bool {
	if f == other {
		return true
	}
	if f == nil || other == nil {
		return false
	}

	if f.sender != other.sender || f.title != other.title || f.topic != other.topic || f.duration != other.duration {
		return false
	}

	if len(f.urls) != len(other.urls) {
		return false
	}
	for q, u := range f.urls {
		if ou, ok := other.urls[q]; !ok || ou != u {
			return false
		}
	}

	if len(f.geoLocations) != len(other.geoLocations) {
		return false
	}
	for i := range f.geoLocations {
		if f.geoLocations[i] != other.geoLocations[i] {
			return false
		}
	}

	if len(f.sizes) != len(other.sizes) {
		return false
	}
	for k, v := range f.sizes {
		if ov, ok := other.sizes[k]; !ok || ov != v {
			return false
		}
	}

	if len(f.subtitles) != len(other.subtitles) {
		return false
	}
	for i := range f.subtitles {
		if f.subtitles[i].String() != other.subtitles[i].String() {
			return false
		}
	}

	return true
}

// Hash digests the same fields Equal compares, so equal films hash equal
func (f *Film) Hash() uint64 {
	h := xxhash.New()
	var buf []byte

	writeString := func(s string) {
		buf = binary.AppendUvarint(buf[:0], uint64(len(s)))
		h.Write(buf)
		h.WriteString(s)
	}
	writeInt := func(v int64) {
		buf = binary.AppendVarint(buf[:0], v)
		h.Write(buf)
	}

	writeInt(int64(len(f.urls)))
	for _, q := range qualities {
		if location, ok := f.urls[q]; ok {
			writeString(q.String())
			writeString(location.String())
		}
	}

	writeInt(int64(len(f.geoLocations)))
	for _, g := range f.geoLocations {
		writeString(g.String())
	}

	writeString(f.sender.String())
	writeString(f.title)
	writeString(f.topic)
	writeInt(int64(f.duration))

	keys := make([]string, 0, len(f.sizes))
	for k := range f.sizes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	writeInt(int64(len(keys)))
	for _, k := range keys {
		writeString(k)
		writeInt(f.sizes[k])
	}

	writeInt(int64(len(f.subtitles)))
	for _, u := range f.subtitles {
		writeString(u.String())
	}

	return h.Sum64()
}

// String renders every field for diagnostics
func (f *Film) String() string {
	website := "<nil>"
	if f.website != nil {
		website = f.website.String()
	}

	subtitles := make([]string, len(f.subtitles))
	for i, u := range f.subtitles {
		subtitles[i] = u.String()
	}

	return fmt.Sprintf(
		"Film{id=%s, urls=%v, geoLocations=%v, sender=%s, title=%q, topic=%q, time=%s, duration=%s, sizes=%v, subtitles=%v, description=%q, website=%s, new=%t}",
		f.id, f.urls, f.geoLocations, f.sender, f.title, f.topic,
		f.broadcastTime.Format(time.RFC3339), f.duration, f.sizes, subtitles,
		f.description, website, f.isNew,
	)
}

// geoSet drops duplicates and orders known regions by ordinal, unknown ones
// after them by name
func geoSet(geo []GeoLocation) []GeoLocation {
	seen := make(map[GeoLocation]bool, len(geo))
	set := make([]GeoLocation, 0, len(geo))
	for _, g := range geo {
		if seen[g] {
			continue
		}
		seen[g] = true
		set = append(set, g)
	}

	sort.Slice(set, func(i, j int) bool {
		oi, oj := set[i].Ordinal(), set[j].Ordinal()
		switch {
		case oi >= 0 && oj >= 0:
			return oi < oj
		case oi >= 0:
			return true
		case oj >= 0:
			return false
		default:
			return set[i] < set[j]
		}
	})
	return set
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
