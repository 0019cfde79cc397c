package adapters

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

// --- Mocks ---

// mockHTTPClient は HTTPClient を実装し、呼び出し回数を記録します。
type mockHTTPClient struct {
	mu        sync.Mutex
	calls     int
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.fetchFunc(ctx, url)
}

func (m *mockHTTPClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockCache は ImageCacher を実装します。TTL は無視します。
type mockCache struct {
	mu   sync.Mutex
	data map[string]any
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]any)}
}

func (m *mockCache) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mockCache) Set(key string, value any, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// mockReader は remoteio.InputReader を実装します。
type mockReader struct {
	files map[string][]byte
}

func (m *mockReader) Open(_ context.Context, uri string) (io.ReadCloser, error) {
	data, ok := m.files[uri]
	if !ok {
		return nil, fmt.Errorf("open %s: file does not exist", uri)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockReader) List(_ context.Context, _ string, fn func(string) error) error {
	for name := range m.files {
		if err := fn(name); err != nil {
			return err
		}
	}
	return nil
}

// mockFetcher は ImageFetcher を実装します。
type mockFetcher struct {
	data map[string][]byte
	errs map[string]error
}

func (m *mockFetcher) Fetch(_ context.Context, icon *domain.Icon) ([]byte, error) {
	if err, ok := m.errs[icon.ID]; ok {
		return nil, err
	}
	if data, ok := m.data[icon.ID]; ok {
		return data, nil
	}
	return nil, &domain.ImageUnavailableError{IconID: icon.ID}
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pngBytes は不透明な単色の PNG を作成します。
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}
