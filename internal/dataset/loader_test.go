package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/musictrends-cli/internal/genre"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
	}
	return &Loader{Fs: fs, Logger: quietLogger(), Fallback: GeneratorOptions{Count: 50}}
}

func TestLoader_LocalFiles(t *testing.T) {
	l := memLoader(t, map[string]string{
		"/data/tracks.csv":  "name,energy,release_date\nA,0.5,2001-01-01\nB,0.7,2002-01-01\n",
		"/data/artists.tsv": "name\tfollowers\nX\t10\n",
	})
	st := l.Load(context.Background(), Sources{Tracks: "/data/tracks.csv", Artists: "/data/artists.tsv"})
	require.False(t, st.Synthetic)
	require.NoError(t, st.FallbackCause)
	assert.Len(t, st.Tracks(), 2)
	require.Len(t, st.Artists(), 1)
	v, ok := st.Artists()[0].Float("followers")
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)
}

func TestLoader_HTTPSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tracks.csv":
			fmt.Fprint(w, "name,energy,release_date\nA,0.5,2001-01-01\n")
		case "/artists.csv":
			fmt.Fprint(w, "name\nX\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := &Loader{Client: srv.Client(), Logger: quietLogger()}
	st := l.Load(context.Background(), Sources{Tracks: srv.URL + "/tracks.csv", Artists: srv.URL + "/artists.csv"})
	require.False(t, st.Synthetic)
	assert.Len(t, st.Tracks(), 1)
	assert.Len(t, st.Artists(), 1)
}

func TestLoader_FallbackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/artists.csv" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "name,energy\nA,0.5\n")
	}))
	defer srv.Close()

	l := &Loader{Client: srv.Client(), Logger: quietLogger(), Fallback: GeneratorOptions{Count: 25}}
	st := l.Load(context.Background(), Sources{Tracks: srv.URL + "/tracks.csv", Artists: srv.URL + "/artists.csv"})
	require.True(t, st.Synthetic)
	require.Error(t, st.FallbackCause)
	assert.Contains(t, st.FallbackCause.Error(), "status 500")
	assert.Len(t, st.Tracks(), 25)
	assert.Empty(t, st.Artists())
}

func TestLoader_UnreachableAndMissing(t *testing.T) {
	l := NewLoader(500*time.Millisecond, quietLogger())
	l.Fallback = GeneratorOptions{Count: 10}
	st := l.Load(context.Background(), Sources{Tracks: "http://127.0.0.1:1/tracks.csv"})
	assert.True(t, st.Synthetic)
	assert.Len(t, st.Tracks(), 10)

	m := memLoader(t, nil)
	st = m.Load(context.Background(), Sources{Tracks: "/nope.csv"})
	assert.True(t, st.Synthetic)

	st = m.Load(context.Background(), Sources{})
	assert.True(t, st.Synthetic)
	assert.ErrorIs(t, st.FallbackCause, ErrNoData)
}

func TestGenerate_Count5000(t *testing.T) {
	recs := Generate(GeneratorOptions{Count: 5000})
	require.Len(t, recs, 5000)
	for i, r := range recs {
		for _, f := range FeatureFields {
			_, ok := r.Float(f)
			require.Truef(t, ok, "record %d missing %s", i, f)
		}
		require.Truef(t, r.Year >= SyntheticFromYear && r.Year <= SyntheticToYear, "record %d year %d", i, r.Year)
	}
}

func TestGenerate_DeterministicAndDrift(t *testing.T) {
	a := Generate(GeneratorOptions{Count: 20, Seed: 7})
	b := Generate(GeneratorOptions{Count: 20, Seed: 7})
	for i := range a {
		assert.Equal(t, a[i].Text, b[i].Text)
	}

	zero := Generate(GeneratorOptions{Count: 20, Seed: 0})
	def := Generate(GeneratorOptions{Count: 20, Seed: DefaultSeed})
	assert.Equal(t, zero[0].Text, Generate(GeneratorOptions{Count: 20})[0].Text)
	assert.NotEqual(t, zero[0].Text, def[0].Text, "seed 0 must not be replaced by the default")

	drift := Generate(GeneratorOptions{Count: 200, Drift: true, FromYear: 1950, ToYear: 1960})
	for _, r := range drift {
		e, _ := r.Float("energy")
		assert.True(t, e >= 0 && e <= 1)
		assert.True(t, r.Year >= 1950 && r.Year <= 1960)
	}
}

func TestStore_Filters(t *testing.T) {
	h := []string{"release_date", "energy", "danceability", "acousticness", "valence"}
	st := NewStore([]Record{
		NewRecord(h, []string{"1965-01-01", "0.9", "0.9", "0", "0.5"}), // electronic
		NewRecord(h, []string{"1972-01-01", "0.2", "0.2", "0.9", "0.5"}), // jazz
		NewRecord(h, []string{"", "0.8", "0.1", "0", "0.9"}),             // rock, no year
	}, nil)

	lo, hi, ok := st.YearBounds()
	require.True(t, ok)
	assert.Equal(t, 1965, lo)
	assert.Equal(t, 1972, hi)

	assert.Len(t, FilterYearRange(st.Tracks(), 1960, 1970), 1)
	assert.Len(t, FilterDecade(st.Tracks(), 1970), 1)
	assert.Len(t, FilterGenres(st.Tracks(), genre.NewSet(genre.Rock, genre.Jazz)), 2)
	assert.Empty(t, FilterGenres(st.Tracks(), genre.Set{}))
}
