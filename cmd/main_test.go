package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/glefebvre/mediathek/internal/errors"
	"github.com/glefebvre/mediathek/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "Mediathek "+version+"\n", execute(t, "", "version"))
}

func TestNormalizeCommand_Argument(t *testing.T) {
	out := execute(t, "", "normalize", "--title", "Tatort", "--topic", "Krimi", "--max-length", "400",
		"+++ Aus rechtlichen Gründen ist der Film nur innerhalb von Deutschland abrufbar. +++ Tatort: Ein Mord zuviel")
	assert.Equal(t, "Ein Mord zuviel\n", out)
}

func TestNormalizeCommand_Stdin(t *testing.T) {
	out := execute(t, "Tatort | <b>Spannung</b> pur\n", "normalize", "--title", "Tatort", "--topic", "", "--max-length", "400")
	assert.Equal(t, "Spannung pur\n", out)
}

func TestNormalizeCommand_MaxLength(t *testing.T) {
	out := execute(t, "", "normalize", "--title", "", "--topic", "", "--max-length", "3", "abcdef")
	assert.Equal(t, "abc\n.....\n", out)
}

func TestReadDescription(t *testing.T) {
	got, err := readDescription(strings.NewReader("ignored"), []string{"arg"})
	require.NoError(t, err)
	assert.Equal(t, "arg", got)

	got, err = readDescription(strings.NewReader("zeile eins\nzeile zwei\r\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "zeile eins\nzeile zwei", got)
}

func tatortOptions() filmOptions {
	return filmOptions{
		id:            "0b7d3c6e-2f55-4a8e-9d7a-6a1e8d9f0c11",
		sender:        "ard",
		title:         "Tatort",
		topic:         "Krimi",
		broadcastTime: "2024-03-10T20:15:00Z",
		website:       "https://www.ardmediathek.de/tatort",
		urls:          []string{"hd=https://media.example.com/hd.mp4?token=a=b", "low=https://media.example.com/low.mp4"},
		subtitles:     []string{"https://media.example.com/sub.xml"},
		sizes:         []string{"https://media.example.com/hd.mp4?token=a=b=2048"},
		geo:           []string{"ch", "de"},
		description:   "Tatort: Ein Mord zuviel",
		isNew:         true,
		maxLength:     400,
	}
}

func TestFilmOptions_Build(t *testing.T) {
	film, err := tatortOptions().build()
	require.NoError(t, err)

	assert.Equal(t, "0b7d3c6e-2f55-4a8e-9d7a-6a1e8d9f0c11", film.ID().String())
	assert.Equal(t, models.SenderARD, film.Sender())
	assert.Equal(t, []models.GeoLocation{models.GeoDE, models.GeoCH}, film.GeoLocations())
	assert.Equal(t, "Ein Mord zuviel", film.Description())
	assert.True(t, film.HasHD())
	assert.True(t, film.HasSubtitles())
	assert.True(t, film.IsNew())
	assert.Equal(t, "TatortKrimihttps://media.example.com/low.mp4", film.IndexKey())

	hd, err := film.URL(models.QualityHD)
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/hd.mp4?token=a=b", hd.String())

	size, err := film.Size(hd)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), size)
}

func TestFilmOptions_BuildInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *filmOptions)
		code   errors.ErrorCode
	}{
		{"sender", func(o *filmOptions) { o.sender = "RTL" }, errors.CodeInvalidInput},
		{"id", func(o *filmOptions) { o.id = "x" }, errors.CodeInvalidInput},
		{"geo", func(o *filmOptions) { o.geo = []string{"US"} }, errors.CodeInvalidInput},
		{"time", func(o *filmOptions) { o.broadcastTime = "gestern" }, errors.CodeParse},
		{"url without quality", func(o *filmOptions) { o.urls = []string{"https://media.example.com/a.mp4"} }, errors.CodeInvalidInput},
		{"url quality", func(o *filmOptions) { o.urls = []string{"uhd=https://media.example.com/a.mp4"} }, errors.CodeInvalidInput},
		{"size value", func(o *filmOptions) { o.sizes = []string{"https://media.example.com/a.mp4=viel"} }, errors.CodeInvalidInput},
		{"negative size", func(o *filmOptions) { o.sizes = []string{"https://media.example.com/a.mp4=-5"} }, errors.CodeValidation},
		{"website", func(o *filmOptions) { o.website = "tatort" }, errors.CodeInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := tatortOptions()
			tc.mutate(&opts)

			_, err := opts.build()
			require.Error(t, err)
			assert.Equal(t, tc.code, errors.GetErrorCode(err))
		})
	}
}

func TestFilmRows(t *testing.T) {
	film, err := tatortOptions().build()
	require.NoError(t, err)

	rows := filmRows(film)
	fields := make(map[string]string, len(rows))
	for _, row := range rows {
		fields[row[0]] = row[1]
	}

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "DE, CH", fields["Geo"])
	assert.Equal(t, "https://media.example.com/low.mp4", fields["URL low"])
	assert.Equal(t, "2048", fields["Size https://media.example.com/hd.mp4?token=a=b"])
	assert.Equal(t, "2024-03-10T20:15:00Z", fields["Broadcast"])
	assert.Equal(t, "true", fields["HD"])
	assert.Len(t, fields["Hash"], 16)
}

func TestRenderers(t *testing.T) {
	rows := [][2]string{{"Title", "Tatort"}, {"Topic", "Krimi"}}

	assert.Equal(t, "Title\tTatort\nTopic\tKrimi\n", renderFieldList(rows))

	table := renderFieldTable(rows)
	assert.Contains(t, table, "Tatort")
	assert.Contains(t, table, "╭")
	assert.Equal(t, "", renderFieldTable(nil))

	assert.False(t, isTerminal(&bytes.Buffer{}))
}
