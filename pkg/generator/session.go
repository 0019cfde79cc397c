package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/bingo-card-kit/pkg/domain"
	"github.com/shouni/bingo-card-kit/pkg/utils"
)

// Session は1回の生成要求で作られたものをすべて保持します。
// パッケージレベルの状態は持たず、呼び出しごとに新しい Session を返します。
type Session struct {
	Request    domain.GenerationRequest
	Seed       int64
	Pool       domain.IconPool
	Selections []Selection
	Sets       []domain.CardSet
	Cards      []*domain.Card
	Warnings   []domain.DegradedUniquenessWarning
}

// CardsForSet は指定したセットのカードだけを返します。
func (s *Session) CardsForSet(setIndex int) []*domain.Card {
	var out []*domain.Card
	for _, c := range s.Cards {
		if c.SetIndex == setIndex {
			out = append(out, c)
		}
	}
	return out
}

// Generator は Set Selector と Card Assembler をまとめて実行します。
type Generator struct {
	retryCap            int
	multiHitProbability float64
	logger              *slog.Logger
	newRNG              func(seed int64) RNG
	newSeed             func() (int64, error)
}

// Option は Generator の設定を変更します。
type Option func(*Generator)

// WithRetryCap は重複回避の試行回数上限を設定します。
func WithRetryCap(n int) Option {
	return func(g *Generator) { g.retryCap = n }
}

// WithMultiHitProbability はマルチヒット対象になる確率を設定します。
func WithMultiHitProbability(p float64) Option {
	return func(g *Generator) { g.multiHitProbability = p }
}

// WithLogger はログ出力先を設定します。
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithRNGFactory はシードから乱数源を作る関数を差し替えます。
func WithRNGFactory(f func(seed int64) RNG) Option {
	return func(g *Generator) { g.newRNG = f }
}

// WithSeedSource は Seed 未指定時のシード生成関数を差し替えます。
func WithSeedSource(f func() (int64, error)) Option {
	return func(g *Generator) { g.newSeed = f }
}

// NewGenerator はデフォルト値で Generator を初期化します。
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		retryCap:            DefaultRetryCap,
		multiHitProbability: DefaultMultiHitProbability,
		logger:              slog.Default(),
		newRNG:              NewRNG,
		newSeed:             utils.NewSeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate はプールと要求からセットとカードを生成します。
// 要求やプールが不正な場合は ValidationError、アイコン不足の場合は InsufficientIconsError を返します。
func (g *Generator) Generate(ctx context.Context, pool domain.IconPool, req domain.GenerationRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}

	seed, err := g.resolveSeed(req.Seed)
	if err != nil {
		return nil, err
	}
	rng := g.newRNG(seed)

	selections, err := NewSelector(rng, g.retryCap, g.logger).Select(pool.Refs(), req)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Request:    req,
		Seed:       seed,
		Pool:       pool,
		Selections: selections,
	}

	assembler := NewAssembler(rng, g.multiHitProbability)
	for _, sel := range selections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cards, err := assembler.Assemble(sel.Set, req)
		if err != nil {
			return nil, err
		}
		session.Sets = append(session.Sets, sel.Set)
		session.Cards = append(session.Cards, cards...)
		if w, ok := sel.Warning(); ok {
			session.Warnings = append(session.Warnings, w)
		}
	}

	g.logger.Debug("カード生成が完了しました",
		"seed", seed,
		"sets", len(session.Sets),
		"cards", len(session.Cards),
		"degraded", len(session.Warnings),
	)
	return session, nil
}

func (g *Generator) resolveSeed(seed *int64) (int64, error) {
	s, err := utils.ResolveSeed(seed, g.newSeed)
	if err != nil {
		return 0, fmt.Errorf("generate seed: %w", err)
	}
	return s, nil
}
