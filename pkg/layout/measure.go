package layout

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

const (
	// DefaultLookupTimeout は画像1件の寸法取得を待つ上限です。
	DefaultLookupTimeout = 5 * time.Second
	// DefaultLookupConcurrency は同時に走らせる寸法取得の上限です。
	DefaultLookupConcurrency = 8
)

// Measurer はアイコン画像の元の寸法を返します。
type Measurer interface {
	Dimensions(ctx context.Context, icon *domain.Icon) (domain.ImageDimensions, error)
}

// TextMeasurer は指定フォントサイズでのテキスト幅 (ポイント) を返します。
type TextMeasurer interface {
	TextWidth(text string, fontSize float64, bold bool) float64
}

// approxText は Helvetica の平均字幅で近似する TextMeasurer です。
type approxText struct{}

func (approxText) TextWidth(text string, fontSize float64, bold bool) float64 {
	em := 0.5
	if bold {
		em = 0.55
	}
	return float64(utf8.RuneCountInString(text)) * fontSize * em
}

// imageLookup は寸法取得1件の結果です。
type imageLookup struct {
	dims        domain.ImageDimensions
	unavailable bool
}

// lookupAll はカード全体に現れるアイコンの寸法を、アイコン ID ごとに1回だけ取得します。
// 同時に走る取得は e.lookupLimit 件までです。
// 個々の失敗はそのアイコンだけに留め、呼び出し元のキャンセル時のみエラーを返します。
func (e *Engine) lookupAll(ctx context.Context, cards []*domain.Card) (map[string]imageLookup, error) {
	icons := distinctIcons(cards)
	results := make([]imageLookup, len(icons))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.lookupLimit)
	for i, icon := range icons {
		g.Go(func() error {
			res, err := e.lookup(gctx, icon)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]imageLookup, len(icons))
	for i, icon := range icons {
		out[icon.ID] = results[i]
	}
	return out, nil
}

// lookup は寸法取得を上限時間付きで待ちます。
// タイムアウトした場合は正方形として扱い、画像自体は描画を試みます。
func (e *Engine) lookup(ctx context.Context, icon *domain.Icon) (imageLookup, error) {
	if e.measurer == nil {
		return imageLookup{dims: domain.SquareDimensions()}, nil
	}

	lctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	type result struct {
		dims domain.ImageDimensions
		err  error
	}
	// 応答しない Measurer を待ち続けないよう、結果はバッファ付きチャネルで受け取る。
	ch := make(chan result, 1)
	go func() {
		d, err := e.measurer.Dimensions(lctx, icon)
		ch <- result{dims: d, err: err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-lctx.Done():
		res.err = lctx.Err()
	}

	if err := ctx.Err(); err != nil {
		return imageLookup{}, err
	}

	switch {
	case res.err == nil:
		if res.dims.Width <= 0 || res.dims.Height <= 0 {
			res.dims = domain.SquareDimensions()
		}
		return imageLookup{dims: res.dims}, nil
	case errors.Is(lctx.Err(), context.DeadlineExceeded):
		// この関数自身の待ち時間切れだけをタイムアウトとみなす。
		e.logger.WarnContext(ctx, "画像サイズの取得がタイムアウトしたため正方形として扱います",
			"icon_id", icon.ID, "timeout", e.lookupTimeout)
		return imageLookup{dims: domain.SquareDimensions()}, nil
	default:
		var unavailable *domain.ImageUnavailableError
		if !errors.As(res.err, &unavailable) {
			unavailable = &domain.ImageUnavailableError{IconID: icon.ID, Cause: res.err}
		}
		e.logger.WarnContext(ctx, "画像を読み込めなかったためプレースホルダーを描画します",
			"icon_id", icon.ID, "error", unavailable)
		return imageLookup{dims: domain.SquareDimensions(), unavailable: true}, nil
	}
}

func distinctIcons(cards []*domain.Card) []*domain.Icon {
	seen := make(map[string]struct{})
	var icons []*domain.Icon
	for _, card := range cards {
		for _, icon := range card.Icons() {
			if _, ok := seen[icon.ID]; ok {
				continue
			}
			seen[icon.ID] = struct{}{}
			icons = append(icons, icon)
		}
	}
	return icons
}
