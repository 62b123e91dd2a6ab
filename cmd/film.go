package main

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glefebvre/mediathek/internal/config"
	"github.com/glefebvre/mediathek/internal/description"
	"github.com/glefebvre/mediathek/internal/errors"
	"github.com/glefebvre/mediathek/internal/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var filmCmd = &cobra.Command{
	Use:   "film",
	Short: "Build a film entry and print its fields",
	Long: `Assemble a film from the given fields and print it together with its
derived values: normalized description, index key, content hash and flags.

Examples:
  mediathek film --sender ARD --title Tatort --topic Krimi \
    --url hd=https://media.example.com/hd.mp4 --geo DE \
    --description "Tatort: Ein Mord zuviel"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := filmOptions{}
		opts.id, _ = cmd.Flags().GetString("id")
		opts.sender, _ = cmd.Flags().GetString("sender")
		opts.title, _ = cmd.Flags().GetString("title")
		opts.topic, _ = cmd.Flags().GetString("topic")
		opts.duration, _ = cmd.Flags().GetDuration("duration")
		opts.broadcastTime, _ = cmd.Flags().GetString("time")
		opts.website, _ = cmd.Flags().GetString("website")
		opts.urls, _ = cmd.Flags().GetStringArray("url")
		opts.subtitles, _ = cmd.Flags().GetStringArray("subtitle")
		opts.sizes, _ = cmd.Flags().GetStringArray("size")
		opts.geo, _ = cmd.Flags().GetStringSlice("geo")
		opts.description, _ = cmd.Flags().GetString("description")
		opts.isNew, _ = cmd.Flags().GetBool("new")
		opts.maxLength, _ = cmd.Flags().GetInt("max-length")
		if opts.maxLength <= 0 {
			opts.maxLength = config.Get().Description.MaxLength
		}

		film, err := opts.build()
		if err != nil {
			return err
		}

		rows := filmRows(film)
		out := cmd.OutOrStdout()
		if isTerminal(out) {
			fmt.Fprintln(out, renderFieldTable(rows))
		} else {
			fmt.Fprint(out, renderFieldList(rows))
		}
		return nil
	},
}

func init() {
	filmCmd.Flags().String("id", "", "film id (default: random uuid)")
	filmCmd.Flags().String("sender", "", "broadcaster, e.g. ARD, ZDF, ARTE.DE")
	filmCmd.Flags().String("title", "", "film title")
	filmCmd.Flags().String("topic", "", "film topic")
	filmCmd.Flags().Duration("duration", 0, "running time, e.g. 1h28m")
	filmCmd.Flags().String("time", "", "broadcast time in RFC 3339")
	filmCmd.Flags().String("website", "", "film page")
	filmCmd.Flags().StringArray("url", nil, "playback location as quality=URI (repeatable)")
	filmCmd.Flags().StringArray("subtitle", nil, "subtitle location (repeatable)")
	filmCmd.Flags().StringArray("size", nil, "file size as URI=bytes (repeatable)")
	filmCmd.Flags().StringSlice("geo", nil, "geo-restriction codes: DE, AT, CH, EU, WELT")
	filmCmd.Flags().String("description", "", "raw description")
	filmCmd.Flags().Bool("new", false, "mark the film as new")
	filmCmd.Flags().Int("max-length", 0, "maximum description length (default from configuration)")
	filmCmd.MarkFlagRequired("sender")
	rootCmd.AddCommand(filmCmd)
}

type filmOptions struct {
	id            string
	sender        string
	title         string
	topic         string
	duration      time.Duration
	broadcastTime string
	website       string
	urls          []string
	subtitles     []string
	sizes         []string
	geo           []string
	description   string
	isNew         bool
	maxLength     int
}

func (o filmOptions) build() (*models.Film, error) {
	id := uuid.New()
	if o.id != "" {
		parsed, err := uuid.Parse(o.id)
		if err != nil {
			return nil, errors.InvalidInputError("id", o.id)
		}
		id = parsed
	}

	sender, err := models.ParseSender(o.sender)
	if err != nil {
		return nil, err
	}

	var geo []models.GeoLocation
	for _, code := range o.geo {
		g, err := models.ParseGeoLocation(code)
		if err != nil {
			return nil, err
		}
		geo = append(geo, g)
	}

	var broadcast time.Time
	if o.broadcastTime != "" {
		broadcast, err = time.Parse(time.RFC3339, o.broadcastTime)
		if err != nil {
			return nil, errors.ParseError("invalid broadcast time", err)
		}
	}

	var website *url.URL
	if o.website != "" {
		website, err = models.ParseLocation("website", o.website)
		if err != nil {
			return nil, err
		}
	}

	film := models.NewFilm(id, geo, sender, o.title, o.topic, broadcast, o.duration, website,
		models.WithNormalizer(description.NewPipeline(o.maxLength)))

	for _, pair := range o.urls {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.InvalidInputError("url", pair)
		}
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

	for _, raw := range o.subtitles {
		u, err := models.ParseLocation("subtitle", raw)
		if err != nil {
			return nil, err
		}
		film.AddSubtitle(u)
	}

	for _, pair := range o.sizes {
		i := strings.LastIndex(pair, "=")
		if i < 0 {
			return nil, errors.InvalidInputError("size", pair)
		}
		u, err := models.ParseLocation("size", pair[:i])
		if err != nil {
			return nil, err
		}
		size, err := strconv.ParseInt(pair[i+1:], 10, 64)
		if err != nil {
			return nil, errors.InvalidInputError("size", pair)
		}
		if err := film.AddSize(u, size); err != nil {
			return nil, err
		}
	}

	film.SetDescription(o.description)
	film.SetNew(o.isNew)

	return film, nil
}

// filmRows lists the film's fields in display order
func filmRows(f *models.Film) [][2]string {
	rows := [][2]string{
		{"ID", f.ID().String()},
		{"Sender", f.Sender().String()},
		{"Title", f.Title()},
		{"Topic", f.Topic()},
	}

	if !f.BroadcastTime().IsZero() {
		rows = append(rows, [2]string{"Broadcast", f.BroadcastTime().Format(time.RFC3339)})
	}
	rows = append(rows, [2]string{"Duration", f.Duration().String()})
	if website := f.Website(); website != nil {
		rows = append(rows, [2]string{"Website", website.String()})
	}

	geo := make([]string, 0)
	for _, g := range f.GeoLocations() {
		geo = append(geo, g.String())
	}
	rows = append(rows, [2]string{"Geo", strings.Join(geo, ", ")})

	urls := f.URLs()
	for _, q := range models.Qualities() {
		if location, ok := urls[q]; ok {
			rows = append(rows, [2]string{"URL " + q.String(), location.String()})
		}
	}
	for _, u := range f.Subtitles() {
		rows = append(rows, [2]string{"Subtitle", u.String()})
	}

	sizes := f.Sizes()
	keys := make([]string, 0, len(sizes))
	for k := range sizes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, [2]string{"Size " + k, strconv.FormatInt(sizes[k], 10)})
	}

	rows = append(rows,
		[2]string{"Description", f.Description()},
		[2]string{"New", strconv.FormatBool(f.IsNew())},
		[2]string{"HD", strconv.FormatBool(f.HasHD())},
		[2]string{"Subtitles", strconv.FormatBool(f.HasSubtitles())},
		[2]string{"Index key", f.IndexKey()},
		[2]string{"Hash", fmt.Sprintf("%016x", f.Hash())},
	)
	return rows
}
