package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegHead = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	pngHead  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	webpHead = []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00")
	gifHead  = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGoogleSearchImages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				query := r.URL.Query()
				assert.Equal(t, "secret", query.Get("key"))
				assert.Equal(t, "engine", query.Get("cx"))
				assert.Equal(t, "black mesa", query.Get("q"))
				assert.Equal(t, "image", query.Get("searchType"))
				assert.Equal(t, "10", query.Get("num"))
				assert.Equal(t, "31", query.Get("start"))
				assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(
					w, `{"items":[{"link":"https://a.example/1.jpg"},{"link":""},{"link":"https://a.example/2.png"}]}`,
				)
			},
		),
	)
	defer server.Close()

	search := NewGoogleSearch(
		server.Client(), GoogleSearchConfig{
			BaseURL:   server.URL,
			APIKey:    "secret",
			EngineID:  "engine",
			UserAgent: "test-agent",
		},
	)

	links, err := search.SearchImages(context.Background(), "black mesa", 31)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/1.jpg", "https://a.example/2.png"}, links)
}

func TestGoogleSearchNoItems(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"kind":"customsearch#search"}`)
			},
		),
	)
	defer server.Close()

	links, err := NewGoogleSearch(server.Client(), GoogleSearchConfig{BaseURL: server.URL}).
		SearchImages(context.Background(), "nothing", 1)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestGoogleSearchErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "quota", http.StatusTooManyRequests)
			},
		),
	)
	defer server.Close()

	_, err := NewGoogleSearch(server.Client(), GoogleSearchConfig{BaseURL: server.URL}).
		SearchImages(context.Background(), "cats", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestImageClientDownload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
				if r.URL.Path == "/missing.jpg" {
					http.NotFound(w, r)
					return
				}
				_, _ = w.Write(jpegHead)
			},
		),
	)
	defer server.Close()

	client := NewImageClient(server.Client(), "")

	body, err := client.Download(context.Background(), server.URL+"/ok.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, jpegHead, data)

	_, err = client.Download(context.Background(), server.URL+"/missing.jpg")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestImageClientHonoursContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
			},
		),
	)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewImageClient(server.Client(), "").Download(ctx, server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPicsumRequestsSize(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/640/480", r.URL.Path)
				_, _ = w.Write(pngHead)
			},
		),
	)
	defer server.Close()

	body, err := NewPicsum(server.Client(), server.URL+"/", "").FetchRandomImage(context.Background(), 640, 480)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, pngHead, data)
}

func TestMimeSnifferDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		head     []byte
		mimeType string
		ext      string
	}{
		{name: "jpeg", head: jpegHead, mimeType: "image/jpeg", ext: ".jpg"},
		{name: "png", head: pngHead, mimeType: "image/png", ext: ".png"},
		{name: "webp", head: webpHead, mimeType: "image/webp", ext: ".webp"},
		{name: "gif", head: gifHead, mimeType: "image/gif", ext: ".gif"},
		{name: "text", head: []byte("hello there"), mimeType: "text/plain", ext: ".txt"},
	}

	sniffer := NewMimeSniffer()
	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()

				mimeType, ext := sniffer.Detect(tt.head)
				assert.Equal(t, tt.mimeType, mimeType)
				assert.Equal(t, tt.ext, ext)
			},
		)
	}
}

type mockSearcher struct {
	calls      int
	links      []string
	ShouldFail bool
}

func (m *mockSearcher) SearchImages(_ context.Context, _ string, _ int) ([]string, error) {
	m.calls++
	if m.ShouldFail {
		return nil, errors.New("search failed")
	}
	return m.links, nil
}

type mockCache struct {
	values     map[string][]string
	ShouldFail bool
}

func (m *mockCache) GetLinks(_ context.Context, key string) ([]string, bool, error) {
	if m.ShouldFail {
		return nil, false, errors.New("cache down")
	}
	links, ok := m.values[key]
	return links, ok, nil
}

func (m *mockCache) SetLinks(_ context.Context, key string, links []string) error {
	if m.ShouldFail {
		return errors.New("cache down")
	}
	m.values[key] = links
	return nil
}

func TestCachedSearchHitsCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	searcher := &mockSearcher{links: []string{"https://a.example/1.jpg"}}
	cache := &mockCache{values: make(map[string][]string)}
	search := NewCachedSearch(searcher, cache, discardLogger())

	links, err := search.SearchImages(ctx, "Cats", 11)
	require.NoError(t, err)
	assert.Equal(t, searcher.links, links)
	assert.Contains(t, cache.values, "search_cats_11")

	links, err = search.SearchImages(ctx, "cats", 11)
	require.NoError(t, err)
	assert.Equal(t, searcher.links, links)
	assert.Equal(t, 1, searcher.calls)

	_, err = search.SearchImages(ctx, "cats", 21)
	require.NoError(t, err)
	assert.Equal(t, 2, searcher.calls)
}

func TestCachedSearchSkipsEmptyResults(t *testing.T) {
	t.Parallel()

	searcher := &mockSearcher{}
	cache := &mockCache{values: make(map[string][]string)}

	_, err := NewCachedSearch(searcher, cache, discardLogger()).SearchImages(context.Background(), "void", 1)
	require.NoError(t, err)
	assert.Empty(t, cache.values)
}

func TestCachedSearchSurvivesCacheFailure(t *testing.T) {
	t.Parallel()

	searcher := &mockSearcher{links: []string{"https://a.example/1.jpg"}}
	cache := &mockCache{ShouldFail: true}

	links, err := NewCachedSearch(searcher, cache, discardLogger()).SearchImages(context.Background(), "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, searcher.links, links)
}

func TestCachedSearchPropagatesSearchError(t *testing.T) {
	t.Parallel()

	searcher := &mockSearcher{ShouldFail: true}
	cache := &mockCache{values: make(map[string][]string)}

	_, err := NewCachedSearch(searcher, cache, discardLogger()).SearchImages(context.Background(), "cats", 1)
	assert.Error(t, err)
}
