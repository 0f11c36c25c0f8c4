package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	// keep a stray .env in the package dir out of the picture
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(home))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTracksPath, c.TracksPath)
	assert.Equal(t, 5000, c.FallbackCount)
	assert.Equal(t, int64(42), c.SyntheticSeed)
	assert.Equal(t, 100, c.AnomalyCap)
	assert.Equal(t, 10000, c.SampleCeiling)
	assert.Equal(t, 0.25, c.HitFraction)
	assert.Equal(t, 2.0, c.DefaultSensitivity)
	assert.Equal(t, 60*time.Second, c.HTTPTimeout())
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	home := isolate(t)
	c, err := Load("")
	require.NoError(t, err)
	c.TracksPath = "/data/tracks.csv"
	c.AnomalyCap = 25
	require.NoError(t, Save(c, ""))
	assert.FileExists(t, filepath.Join(home, DirName, "config.yaml"))

	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/tracks.csv", got.TracksPath)
	assert.Equal(t, 25, got.AnomalyCap)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_ceiling: 500\nlog_level: warn\n"), 0o644))
	t.Setenv("MUSICTRENDS_SAMPLE_CEILING", "750")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 750, c.SampleCeiling)
	assert.Equal(t, "warn", c.LogLevel)
}

func TestLoad_DotEnv(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte("MUSICTRENDS_TRACKS_PATH=/from/dotenv.csv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("MUSICTRENDS_TRACKS_PATH") })

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/from/dotenv.csv", c.TracksPath)
}

func TestLoad_MissingExplicitFileFallsBackToDefaults(t *testing.T) {
	home := isolate(t)
	c, err := Load(filepath.Join(home, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 100, c.AnomalyCap)
}

func TestLoad_MalformedFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("anomaly_cap: [\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestGlobal_SetAndGet(t *testing.T) {
	c := &Global{}
	require.NoError(t, c.Set("anomaly_cap", "50"))
	require.NoError(t, c.Set("hit_fraction", "0.1"))
	require.NoError(t, c.Set("log_format", "JSON"))
	require.NoError(t, c.Set("tracks_path", " data/tracks.tsv "))

	for key, want := range map[string]string{
		"anomaly_cap":  "50",
		"hit_fraction": "0.1",
		"log_format":   "json",
		"tracks_path":  "data/tracks.tsv",
	} {
		got, err := c.Get(key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}

	assert.Error(t, c.Set("anomaly_cap", "-1"))
	assert.Error(t, c.Set("hit_fraction", "1.5"))
	assert.Error(t, c.Set("default_sensitivity", "9"))
	assert.Error(t, c.Set("output_format", "xml"))
	assert.Error(t, c.Set("api_key", "x"))
	_, err := c.Get("api_key")
	assert.Error(t, err)

	for _, k := range Keys {
		_, err := c.Get(k)
		assert.NoError(t, err, k)
	}
}
