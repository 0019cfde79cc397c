package generator

import (
	"fmt"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

// DefaultMultiHitProbability は各マスがマルチヒット対象になる確率です。
const DefaultMultiHitProbability = 0.3

// Assembler はセットのアイコンから具体的なカードを組み立てます。
type Assembler struct {
	rng                 RNG
	multiHitProbability float64
}

// NewAssembler は Assembler を初期化します。
// probability が範囲外の場合は DefaultMultiHitProbability を使います。
func NewAssembler(rng RNG, probability float64) *Assembler {
	if probability < 0 || probability > 1 {
		probability = DefaultMultiHitProbability
	}
	return &Assembler{rng: rng, multiHitProbability: probability}
}

// Assemble は1セット分 (req.CardsPerSet 枚) のカードを返します。
func (a *Assembler) Assemble(set domain.CardSet, req domain.GenerationRequest) ([]*domain.Card, error) {
	cells := req.CellsPerCard()
	if need := req.IconsPerSet(); len(set.SelectedIcons) < need {
		return nil, fmt.Errorf("assemble set %d: %w", set.SetIndex,
			&domain.InsufficientIconsError{Required: need, Available: len(set.SelectedIcons)})
	}

	cards := make([]*domain.Card, 0, req.CardsPerSet)

	if req.SameCardAcrossSet {
		canonical := a.buildCard(set, 0, set.SelectedIcons[:cells], req)
		cards = append(cards, canonical)
		for i := 1; i < req.CardsPerSet; i++ {
			clone := canonical.Clone()
			clone.CardIndex = i
			cards = append(cards, clone)
		}
		return cards, nil
	}

	for i := 0; i < req.CardsPerSet; i++ {
		icons := set.SelectedIcons[:cells]
		if req.Distribution == domain.DifferentIcons {
			icons = set.SelectedIcons[i*cells : (i+1)*cells]
		}
		cards = append(cards, a.buildCard(set, i, icons, req))
	}
	return cards, nil
}

func (a *Assembler) buildCard(set domain.CardSet, cardIndex int, icons []*domain.Icon, req domain.GenerationRequest) *domain.Card {
	grid := layoutGrid(Shuffled(a.rng, icons), req.GridSize, req.CenterBlank)
	if req.MultiHitMode {
		a.markMultiHit(grid, req.Difficulty)
	}
	return &domain.Card{
		Title:        req.ResolvedTitle(),
		Identifier:   set.Identifier,
		SetIndex:     set.SetIndex,
		CardIndex:    cardIndex,
		GridSize:     req.GridSize,
		MultiHitMode: req.MultiHitMode,
		Grid:         grid,
	}
}

// layoutGrid はアイコンを行優先で配置します。
// 奇数サイズで centerBlank の場合は中央マスをフリースペースにし、そのマスを飛ばして詰めます。
// 偶数サイズには一意な中央がないため centerBlank は無視されます。
func layoutGrid(icons []*domain.Icon, size int, centerBlank bool) [][]domain.Cell {
	center := -1
	if centerBlank && size%2 == 1 {
		center = size / 2
	}

	grid := make([][]domain.Cell, size)
	next := 0
	for r := 0; r < size; r++ {
		grid[r] = make([]domain.Cell, size)
		for c := 0; c < size; c++ {
			if r == center && c == center {
				grid[r][c] = domain.Cell{IsFreeSpace: true, HitCount: 1}
				continue
			}
			grid[r][c] = domain.Cell{Icon: icons[next], HitCount: 1}
			next++
		}
	}
	return grid
}

func (a *Assembler) markMultiHit(grid [][]domain.Cell, difficulty domain.Difficulty) {
	lo, hi := difficulty.HitRange()
	for r := range grid {
		for c := range grid[r] {
			cell := &grid[r][c]
			if cell.IsFreeSpace || cell.Icon == nil || cell.Icon.ExcludeFromMultiHit {
				continue
			}
			if a.rng.Float64() >= a.multiHitProbability {
				continue
			}
			cell.IsMultiHitTarget = true
			cell.HitCount = lo + a.rng.Intn(hi-lo+1)
		}
	}
}
