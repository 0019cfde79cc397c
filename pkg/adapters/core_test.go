package adapters

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

const publicImageURL = "https://93.184.216.34/icons/cow.png"

func TestImageSource_Fetch(t *testing.T) {
	ctx := context.Background()
	img := pngBytes(t, 4, 2)

	t.Run("埋め込みデータはそのまま返す", func(t *testing.T) {
		httpMock := &mockHTTPClient{fetchFunc: func(context.Context, string) ([]byte, error) {
			t.Fatal("http client must not be called")
			return nil, nil
		}}
		src := NewImageSource(httpMock, nil, nil, time.Hour)

		got, err := src.Fetch(ctx, &domain.Icon{ID: "cow", ImageData: img, ImageURI: publicImageURL})
		require.NoError(t, err)
		assert.Equal(t, img, got)
	})

	t.Run("data URI をデコードする", func(t *testing.T) {
		src := NewImageSource(nil, nil, nil, time.Hour)

		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
		got, err := src.Fetch(ctx, &domain.Icon{ID: "cow", ImageURI: uri})
		require.NoError(t, err)
		assert.Equal(t, img, got)

		got, err = src.Fetch(ctx, &domain.Icon{ID: "txt", ImageURI: "data:text/plain,hello%20world"})
		require.NoError(t, err)
		assert.Equal(t, []byte("hello world"), got)
	})

	t.Run("壊れた data URI は ImageUnavailableError", func(t *testing.T) {
		src := NewImageSource(nil, nil, nil, time.Hour)

		_, err := src.Fetch(ctx, &domain.Icon{ID: "bad", ImageURI: "data:image/png;base64,%%%"})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)

		_, err = src.Fetch(ctx, &domain.Icon{ID: "nocomma", ImageURI: "data:image/png"})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)
	})

	t.Run("HTTPで取得した結果はキャッシュされる", func(t *testing.T) {
		httpMock := &mockHTTPClient{fetchFunc: func(_ context.Context, url string) ([]byte, error) {
			assert.Equal(t, publicImageURL, url)
			return img, nil
		}}
		cache := newMockCache()
		src := NewImageSource(httpMock, nil, cache, time.Hour)
		icon := &domain.Icon{ID: "cow", ImageURI: publicImageURL}

		for i := 0; i < 3; i++ {
			got, err := src.Fetch(ctx, icon)
			require.NoError(t, err)
			assert.Equal(t, img, got)
		}
		assert.Equal(t, 1, httpMock.callCount())

		cached, ok := cache.Get(cacheKeyImageBytes + publicImageURL)
		require.True(t, ok)
		assert.Equal(t, img, cached)
	})

	t.Run("キャッシュの型が不正なら取得し直す", func(t *testing.T) {
		httpMock := &mockHTTPClient{fetchFunc: func(context.Context, string) ([]byte, error) { return img, nil }}
		cache := newMockCache()
		cache.Set(cacheKeyImageBytes+publicImageURL, "not bytes", time.Hour)
		src := NewImageSource(httpMock, nil, cache, time.Hour, WithSourceLogger(discardLogger()))

		got, err := src.Fetch(ctx, &domain.Icon{ID: "cow", ImageURI: publicImageURL})
		require.NoError(t, err)
		assert.Equal(t, img, got)
		assert.Equal(t, 1, httpMock.callCount())
	})

	t.Run("プライベートアドレスへのアクセスは拒否する", func(t *testing.T) {
		httpMock := &mockHTTPClient{fetchFunc: func(context.Context, string) ([]byte, error) { return img, nil }}
		src := NewImageSource(httpMock, nil, nil, time.Hour)

		_, err := src.Fetch(ctx, &domain.Icon{ID: "local", ImageURI: "http://127.0.0.1/cow.png"})
		require.ErrorIs(t, err, domain.ErrImageUnavailable)

		var uerr *domain.ImageUnavailableError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "local", uerr.IconID)
		assert.Zero(t, httpMock.callCount())
	})

	t.Run("URLガードを差し替えられる", func(t *testing.T) {
		httpMock := &mockHTTPClient{fetchFunc: func(context.Context, string) ([]byte, error) { return img, nil }}
		src := NewImageSource(httpMock, nil, nil, time.Hour,
			WithURLGuard(func(string) (bool, error) { return true, nil }))

		got, err := src.Fetch(ctx, &domain.Icon{ID: "local", ImageURI: "http://localhost:8080/cow.png"})
		require.NoError(t, err)
		assert.Equal(t, img, got)
	})

	t.Run("HTTPエラーは原因を保持する", func(t *testing.T) {
		notFound := errors.New("status 404")
		httpMock := &mockHTTPClient{fetchFunc: func(context.Context, string) ([]byte, error) { return nil, notFound }}
		src := NewImageSource(httpMock, nil, nil, time.Hour)

		_, err := src.Fetch(ctx, &domain.Icon{ID: "cow", ImageURI: publicImageURL})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)
		assert.ErrorIs(t, err, notFound)
	})

	t.Run("それ以外のURIはリーダーで読む", func(t *testing.T) {
		reader := &mockReader{files: map[string][]byte{"icons/cow.png": img}}
		src := NewImageSource(nil, reader, nil, time.Hour)

		got, err := src.Fetch(ctx, &domain.Icon{ID: "cow", ImageURI: "icons/cow.png"})
		require.NoError(t, err)
		assert.Equal(t, img, got)

		_, err = src.Fetch(ctx, &domain.Icon{ID: "pig", ImageURI: "icons/pig.png"})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)
	})

	t.Run("取得経路がなければ失敗する", func(t *testing.T) {
		src := NewImageSource(nil, nil, nil, time.Hour)

		_, err := src.Fetch(ctx, &domain.Icon{ID: "none"})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)

		_, err = src.Fetch(ctx, &domain.Icon{ID: "web", ImageURI: publicImageURL})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)

		_, err = src.Fetch(ctx, &domain.Icon{ID: "file", ImageURI: "icons/cow.png"})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)
	})
}

func TestImageSource_Dimensions(t *testing.T) {
	ctx := context.Background()

	t.Run("ヘッダーから寸法を読み、キャッシュする", func(t *testing.T) {
		img := pngBytes(t, 40, 20)
		httpMock := &mockHTTPClient{fetchFunc: func(context.Context, string) ([]byte, error) { return img, nil }}
		cache := newMockCache()
		src := NewImageSource(httpMock, nil, cache, time.Hour)
		icon := &domain.Icon{ID: "wide", ImageURI: publicImageURL}

		dims, err := src.Dimensions(ctx, icon)
		require.NoError(t, err)
		assert.Equal(t, domain.ImageDimensions{Width: 40, Height: 20, Known: true}, dims)

		// 画像バイナリのキャッシュを消しても寸法はキャッシュから返る。
		cache.Set(cacheKeyImageBytes+publicImageURL, nil, time.Hour)
		dims, err = src.Dimensions(ctx, icon)
		require.NoError(t, err)
		assert.Equal(t, 40, dims.Width)
		assert.Equal(t, 1, httpMock.callCount())
	})

	t.Run("埋め込みデータはIDで区別する", func(t *testing.T) {
		cache := newMockCache()
		src := NewImageSource(nil, nil, cache, time.Hour)

		a, err := src.Dimensions(ctx, &domain.Icon{ID: "a", ImageData: pngBytes(t, 8, 8)})
		require.NoError(t, err)
		b, err := src.Dimensions(ctx, &domain.Icon{ID: "b", ImageData: pngBytes(t, 6, 12)})
		require.NoError(t, err)

		assert.Equal(t, 8, a.Height)
		assert.Equal(t, 12, b.Height)
	})

	t.Run("画像でないデータは ImageUnavailableError", func(t *testing.T) {
		src := NewImageSource(nil, nil, nil, time.Hour)

		_, err := src.Dimensions(ctx, &domain.Icon{ID: "txt", ImageData: []byte("not an image")})
		assert.ErrorIs(t, err, domain.ErrImageUnavailable)
	})
}

func TestIsSafeURL(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    bool
		wantErr bool
	}{
		{"公開アドレス", "https://93.184.216.34/cow.png", true, false},
		{"プライベートアドレス", "http://10.0.0.8/cow.png", false, true},
		{"ループバック", "http://127.0.0.1:8080/cow.png", false, true},
		{"リンクローカル", "http://169.254.169.254/latest/meta-data", false, true},
		{"未指定アドレス", "http://0.0.0.0/cow.png", false, true},
		{"IPv6ループバック", "http://[::1]/cow.png", false, true},
		{"不許可スキーム", "ftp://93.184.216.34/cow.png", false, true},
		{"パースできないURL", "not a url", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := isSafeURL(tc.url)
			assert.Equal(t, tc.want, got)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
