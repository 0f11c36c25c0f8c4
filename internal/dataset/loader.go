package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

// ErrNoData is returned when a source holds no usable records.
var ErrNoData = errors.New("no data")

// Sources names the two tables. Each is a file path or an http(s) URL. An empty
// Artists source is allowed and leaves the artist table empty.
type Sources struct {
	Tracks  string
	Artists string
}

// Loader fetches both tables concurrently and falls back to synthetic tracks
// when either fetch fails.
type Loader struct {
	Fs       afero.Fs
	Client   *http.Client
	Logger   *slog.Logger
	Fallback GeneratorOptions
}

// NewLoader returns a loader reading from the OS filesystem with the given HTTP
// timeout.
func NewLoader(timeout time.Duration, logger *slog.Logger) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		Fs:     afero.NewOsFs(),
		Client: &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

// Load always returns a usable store. When loading fails the store holds
// synthetic tracks, no artists, Synthetic=true and the cause in FallbackCause.
func (l *Loader) Load(ctx context.Context, src Sources) *Store {
	tracks, artists, err := l.fetchBoth(ctx, src)
	if err == nil {
		l.logger().Info("dataset loaded", "tracks", len(tracks), "artists", len(artists))
		return NewStore(tracks, artists)
	}
	l.logger().Warn("dataset load failed, using synthetic tracks", "error", err)
	st := NewStore(Generate(l.Fallback), nil)
	st.Synthetic = true
	st.FallbackCause = err
	return st
}

func (l *Loader) fetchBoth(ctx context.Context, src Sources) (tracks, artists []Record, err error) {
	if strings.TrimSpace(src.Tracks) == "" {
		return nil, nil, fmt.Errorf("tracks source: %w", ErrNoData)
	}
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		recs, err := l.fetchTable(ctx, src.Tracks)
		if err != nil {
			return fmt.Errorf("tracks: %w", err)
		}
		if len(recs) == 0 {
			return fmt.Errorf("tracks: %w", ErrNoData)
		}
		tracks = recs
		return nil
	})
	if strings.TrimSpace(src.Artists) != "" {
		p.Go(func(ctx context.Context) error {
			recs, err := l.fetchTable(ctx, src.Artists)
			if err != nil {
				return fmt.Errorf("artists: %w", err)
			}
			artists = recs
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}
	return tracks, artists, nil
}

func (l *Loader) fetchTable(ctx context.Context, source string) ([]Record, error) {
	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	res, err := Parse(rc, ParseOptions{Delimiter: DelimiterFor(source)})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	if n := res.SkippedCount(); n > 0 {
		l.logger().Warn("skipped malformed rows", "source", source, "count", n, "error", res.Skipped)
	}
	return res.Records, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if isURL(source) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		client := l.Client
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
		}
		return resp.Body, nil
	}
	fs := l.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	f, err := fs.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	return f, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func isURL(s string) bool {
	ls := strings.ToLower(s)
	return strings.HasPrefix(ls, "http://") || strings.HasPrefix(ls, "https://")
}
