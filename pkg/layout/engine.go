package layout

import (
	"context"
	"log/slog"
	"time"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

// Engine は生成済みのカードをページに割り付け、描画命令を組み立てます。
type Engine struct {
	measurer      Measurer
	text          TextMeasurer
	lookupTimeout time.Duration
	lookupLimit   int
	logger        *slog.Logger
}

// EngineOption は Engine の設定を変更します。
type EngineOption func(*Engine)

// WithTextMeasurer はラベル幅の計測方法を差し替えます。
func WithTextMeasurer(t TextMeasurer) EngineOption {
	return func(e *Engine) { e.text = t }
}

// WithLookupTimeout は画像1件の寸法取得の待ち時間上限を設定します。
func WithLookupTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.lookupTimeout = d }
}

// WithLookupConcurrency は同時に走らせる寸法取得の上限を設定します。
func WithLookupConcurrency(n int) EngineOption {
	return func(e *Engine) { e.lookupLimit = n }
}

// WithLogger はログ出力先を設定します。
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine は Engine を初期化します。measurer が nil の場合、全画像を正方形として扱います。
func NewEngine(measurer Measurer, opts ...EngineOption) *Engine {
	e := &Engine{
		measurer:      measurer,
		text:          approxText{},
		lookupTimeout: DefaultLookupTimeout,
		lookupLimit:   DefaultLookupConcurrency,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.lookupTimeout <= 0 {
		e.lookupTimeout = DefaultLookupTimeout
	}
	if e.lookupLimit <= 0 {
		e.lookupLimit = DefaultLookupConcurrency
	}
	return e
}

// Paginate はカードをページに割り付けます。
//
// 1ページの枚数が上限に達したとき、またはセットが切り替わったときに改ページします。
// 画像の寸法取得は文書全体でアイコンごとに1回だけ並行して行い、すべて揃ってから配置を確定します。
// ctx がキャンセルされた場合は保留中の取得を破棄して ctx.Err() を返します。
func (e *Engine) Paginate(ctx context.Context, cards []*domain.Card, opts Options) ([]domain.PageLayout, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	plan := planPages(cards, opts.Capacity())
	lookups, err := e.lookupAll(ctx, cards)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages := make([]domain.PageLayout, len(plan))
	for i, pageCards := range plan {
		pages[i] = e.buildPage(i, pageCards, lookups, opts)
	}
	return pages, nil
}

// planPages はカードをページ単位に分けます。
// 改ページは capacity 枚に達したとき、またはセットが変わったときに発生します。
func planPages(cards []*domain.Card, capacity int) [][]*domain.Card {
	var pages [][]*domain.Card
	var current []*domain.Card
	for _, card := range cards {
		if len(current) > 0 && (len(current) >= capacity || current[0].SetIndex != card.SetIndex) {
			pages = append(pages, current)
			current = nil
		}
		current = append(current, card)
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}

func (e *Engine) buildPage(index int, cards []*domain.Card, lookups map[string]imageLookup, opts Options) domain.PageLayout {
	size := opts.Page()
	first := cards[0]
	page := domain.PageLayout{
		PageIndex:  index,
		SetIndex:   first.SetIndex,
		Identifier: first.Identifier,
		Width:      size.Width,
		Height:     size.Height,
	}

	page.Ops = append(page.Ops, headerOps(first, size, opts)...)

	slots := opts.slots()
	for i, card := range cards {
		s := slots[i]
		placement := domain.CardPlacement{
			Card:      card,
			OriginX:   s.x,
			OriginY:   s.y,
			CardWidth: s.side,
		}
		page.Placements = append(page.Placements, placement)
		page.Ops = append(page.Ops, e.cardOps(placement, lookups, opts)...)
	}
	return page
}
