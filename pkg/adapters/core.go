package adapters

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/bingo-card-kit/pkg/domain"
	"github.com/shouni/bingo-card-kit/pkg/imgutil"
)

const (
	cacheKeyImageBytes = "image_bytes:"
	cacheKeyImageDims  = "image_dims:"
)

// HTTPClient は URL から画像データを取得します。httpkit.ClientInterface が満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ImageCacher は画像データと寸法のキャッシュ操作を抽象化するインターフェースです。
type ImageCacher interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
}

// ImageSource はアイコン画像の取得と寸法の計測を担当します。
// layout.Measurer と PDFRenderer の画像取得元を兼ねます。
type ImageSource struct {
	httpClient HTTPClient
	reader     remoteio.InputReader
	cache      ImageCacher
	cacheTTL   time.Duration
	urlGuard   func(rawURL string) (bool, error)
	logger     *slog.Logger
}

// ImageSourceOption は ImageSource の設定を変更します。
type ImageSourceOption func(*ImageSource)

// WithURLGuard は http(s) URL の安全性チェックを差し替えます。
func WithURLGuard(guard func(rawURL string) (bool, error)) ImageSourceOption {
	return func(s *ImageSource) { s.urlGuard = guard }
}

// WithSourceLogger はログ出力先を設定します。
func WithSourceLogger(l *slog.Logger) ImageSourceOption {
	return func(s *ImageSource) { s.logger = l }
}

// NewImageSource は依存関係を注入して ImageSource を生成します。
// cache は nil を許容（キャッシュなし動作）します。httpClient と reader が nil の場合、
// その経路の URI は取得できません。
func NewImageSource(httpClient HTTPClient, reader remoteio.InputReader, cache ImageCacher, cacheTTL time.Duration, opts ...ImageSourceOption) *ImageSource {
	s := &ImageSource{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		cacheTTL:   cacheTTL,
		urlGuard:   isSafeURL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch はアイコンの画像バイナリを返します。失敗時は ImageUnavailableError を返します。
func (s *ImageSource) Fetch(ctx context.Context, icon *domain.Icon) ([]byte, error) {
	if len(icon.ImageData) > 0 {
		return icon.ImageData, nil
	}
	if icon.ImageURI == "" {
		return nil, &domain.ImageUnavailableError{IconID: icon.ID, Cause: fmt.Errorf("icon has no image data")}
	}

	key := cacheKeyImageBytes + icon.ImageURI
	if cached, found := s.cacheGet(key); found {
		if data, ok := cached.([]byte); ok {
			return data, nil
		}
		s.logger.WarnContext(ctx, "キャッシュデータが不正な型です", "key", key, "type", fmt.Sprintf("%T", cached))
	}

	data, err := s.fetchURI(ctx, icon.ImageURI)
	if err != nil {
		return nil, &domain.ImageUnavailableError{IconID: icon.ID, Cause: err}
	}
	s.cacheSet(key, data)
	return data, nil
}

// Dimensions は画像のヘッダーから元の寸法を読み取ります。
func (s *ImageSource) Dimensions(ctx context.Context, icon *domain.Icon) (domain.ImageDimensions, error) {
	key := cacheKeyImageDims + dimsKey(icon)
	if cached, found := s.cacheGet(key); found {
		if dims, ok := cached.(domain.ImageDimensions); ok {
			return dims, nil
		}
	}

	data, err := s.Fetch(ctx, icon)
	if err != nil {
		return domain.ImageDimensions{}, err
	}
	w, h, _, err := imgutil.Dimensions(data)
	if err != nil {
		return domain.ImageDimensions{}, &domain.ImageUnavailableError{IconID: icon.ID, Cause: err}
	}

	dims := domain.ImageDimensions{Width: w, Height: h, Known: true}
	s.cacheSet(key, dims)
	return dims, nil
}

func (s *ImageSource) fetchURI(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return decodeDataURI(uri)
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		if s.httpClient == nil {
			return nil, fmt.Errorf("no http client configured for %s", uri)
		}
		// SSRF対策のバリデーション
		safe, err := s.urlGuard(uri)
		if err != nil {
			return nil, fmt.Errorf("blocked url %s: %w", uri, err)
		}
		if !safe {
			return nil, fmt.Errorf("blocked url %s", uri)
		}
		return s.httpClient.FetchBytes(ctx, uri)
	default:
		if s.reader == nil {
			return nil, fmt.Errorf("no reader configured for %s", uri)
		}
		rc, err := s.reader.Open(ctx, uri)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
}

func (s *ImageSource) cacheGet(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *ImageSource) cacheSet(key string, value any) {
	if s.cache != nil {
		s.cache.Set(key, value, s.cacheTTL)
	}
}

// dimsKey は埋め込みデータのアイコンを ID で、それ以外を URI で識別します。
func dimsKey(icon *domain.Icon) string {
	if len(icon.ImageData) > 0 || icon.ImageURI == "" {
		return "icon:" + icon.ID
	}
	return icon.ImageURI
}

// decodeDataURI は "data:[<mediatype>][;base64],<data>" 形式をデコードします。
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode base64 data uri: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("unescape data uri: %w", err)
	}
	return []byte(data), nil
}

// isSafeURL は SSRF 対策として URL を検証します。
// 名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func isSafeURL(rawURL string) (bool, error) {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false, fmt.Errorf("URLパース失敗: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return false, fmt.Errorf("不許可スキーム: %s", parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolvedIPs, err := net.LookupIP(host)
		if err != nil {
			return false, fmt.Errorf("名前解決失敗: %w", err)
		}
		ips = resolvedIPs
	}

	if len(ips) == 0 {
		return false, fmt.Errorf("IPが見つかりません")
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return false, fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return true, nil
}
