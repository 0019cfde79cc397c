package domain

import (
	"fmt"
	"strings"
)

// DefaultTitle はタイトル未指定時にカードへ印字される見出しです。
const DefaultTitle = "Road Trip Bingo"

const (
	// MaxGridSize はグリッド一辺のマス数の上限です。
	MaxGridSize = 1 << 10
	// MaxTotalCells は1回の要求で作るマスの総数の上限です。
	MaxTotalCells = 1 << 22
)

// Distribution はセット内の各カードへのアイコンの配り方です。
type Distribution int

const (
	// SameIcons は全カードが同じアイコン集合を別の並びで使います。
	SameIcons Distribution = iota
	// DifferentIcons は各カードがセット内の重ならないアイコンを使います。
	DifferentIcons
)

func (d Distribution) String() string {
	switch d {
	case SameIcons:
		return "same"
	case DifferentIcons:
		return "different"
	default:
		return fmt.Sprintf("Distribution(%d)", int(d))
	}
}

// ParseDistribution は "same" / "different" を Distribution に変換します。
func ParseDistribution(s string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "same", "same_icons":
		return SameIcons, nil
	case "different", "different_icons":
		return DifferentIcons, nil
	default:
		return 0, &ValidationError{Field: "distribution", Reason: fmt.Sprintf("unknown distribution %q", s)}
	}
}

// Difficulty はマルチヒット対象に割り当てるヒット数の分布を決めます。
// どのマスが対象になるかには影響しません。
type Difficulty int

const (
	DifficultyStandard Difficulty = iota // 常に 1
	DifficultyEasy                       // 2
	DifficultyMedium                     // 2〜3
	DifficultyHard                       // 3〜5
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyStandard:
		return "standard"
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// HitRange はこの難易度で割り当てるヒット数の範囲 [min, max] を返します。
func (d Difficulty) HitRange() (int, int) {
	switch d {
	case DifficultyEasy:
		return 2, 2
	case DifficultyMedium:
		return 2, 3
	case DifficultyHard:
		return 3, 5
	default:
		return 1, 1
	}
}

// ParseDifficulty は CLI などの文字列表現を Difficulty に変換します。
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return DifficultyStandard, nil
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return 0, &ValidationError{Field: "difficulty", Reason: fmt.Sprintf("unknown difficulty %q", s)}
	}
}

// GenerationRequest は1回のカード生成要求です。
// Seed が nil の場合は生成ごとに新しいシードを使います。
type GenerationRequest struct {
	GridSize          int
	SetCount          int
	CardsPerSet       int
	CenterBlank       bool
	MultiHitMode      bool
	Distribution      Distribution
	SameCardAcrossSet bool
	Difficulty        Difficulty
	Title             string
	Seed              *int64
}

// Validate は乱数を使う処理の前に要求の形式を検査します。
func (r GenerationRequest) Validate() error {
	switch {
	case r.GridSize < 1:
		return &ValidationError{Field: "gridSize", Reason: fmt.Sprintf("must be >= 1, got %d", r.GridSize)}
	case r.SetCount < 1:
		return &ValidationError{Field: "setCount", Reason: fmt.Sprintf("must be >= 1, got %d", r.SetCount)}
	case r.CardsPerSet < 1:
		return &ValidationError{Field: "cardsPerSet", Reason: fmt.Sprintf("must be >= 1, got %d", r.CardsPerSet)}
	case r.Distribution != SameIcons && r.Distribution != DifferentIcons:
		return &ValidationError{Field: "distribution", Reason: fmt.Sprintf("unknown distribution %d", int(r.Distribution))}
	case r.Difficulty < DifficultyStandard || r.Difficulty > DifficultyHard:
		return &ValidationError{Field: "difficulty", Reason: fmt.Sprintf("unknown difficulty %d", int(r.Difficulty))}
	}
	return r.validateSize()
}

// validateSize は掛け算が溢れないよう、割り算でマス数の上限を検査します。
func (r GenerationRequest) validateSize() error {
	if r.GridSize > MaxGridSize {
		return &ValidationError{Field: "gridSize", Reason: fmt.Sprintf("must be <= %d, got %d", MaxGridSize, r.GridSize)}
	}
	cells := r.CellsPerCard()
	if r.CardsPerSet > MaxTotalCells/cells {
		return &ValidationError{Field: "cardsPerSet", Reason: fmt.Sprintf("%d cards of %d cells exceed %d cells", r.CardsPerSet, cells, MaxTotalCells)}
	}
	perSet := cells * r.CardsPerSet
	if r.SetCount > MaxTotalCells/perSet {
		return &ValidationError{Field: "setCount", Reason: fmt.Sprintf("%d sets of %d cells exceed %d cells", r.SetCount, perSet, MaxTotalCells)}
	}
	return nil
}

// CellsPerCard は1枚のカードのマス数です。
func (r GenerationRequest) CellsPerCard() int {
	return r.GridSize * r.GridSize
}

// DistinctCards はセット内で別々のアイコンを使うカードの枚数です。
func (r GenerationRequest) DistinctCards() int {
	if r.Distribution == DifferentIcons && !r.SameCardAcrossSet {
		return r.CardsPerSet
	}
	return 1
}

// IconsPerSet は1セットを埋めるのに必要なアイコン数です。
func (r GenerationRequest) IconsPerSet() int {
	return r.CellsPerCard() * r.DistinctCards()
}

// ResolvedTitle は空タイトルを DefaultTitle に置き換えます。
func (r GenerationRequest) ResolvedTitle() string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return DefaultTitle
}
