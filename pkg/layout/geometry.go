package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

// PageSize はポイント単位 (1/72 inch) の用紙サイズです。
type PageSize struct {
	Width  float64
	Height float64
}

var (
	Letter = PageSize{Width: 612, Height: 792}
	A4     = PageSize{Width: 595.28, Height: 841.89}
)

// ParsePageSize は "letter" / "a4" を PageSize に変換します。
func ParsePageSize(s string) (PageSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "letter":
		return Letter, nil
	case "a4":
		return A4, nil
	default:
		return PageSize{}, fmt.Errorf("unknown page size %q", s)
	}
}

// Portrait は縦長にした用紙サイズを返します。
func (p PageSize) Portrait() PageSize {
	return PageSize{Width: math.Min(p.Width, p.Height), Height: math.Max(p.Width, p.Height)}
}

// Landscape は横長にした用紙サイズを返します。
func (p PageSize) Landscape() PageSize {
	return PageSize{Width: math.Max(p.Width, p.Height), Height: math.Min(p.Width, p.Height)}
}

// Orientation は2枚配置時の並べ方です。
type Orientation int

const (
	// Landscape は横長の用紙に左右2枚並べます。
	Landscape Orientation = iota
	// Portrait は縦長の用紙に上下2枚積みます。
	Portrait
)

const (
	DefaultMargin        = 36.0
	DefaultHeaderReserve = 54.0
)

// Options はページレイアウトの設定です。
type Options struct {
	Mode          domain.LayoutMode
	Orientation   Orientation
	PageSize      PageSize
	Margin        float64
	HeaderReserve float64
	ShowLabels    bool
}

// DefaultOptions は Letter 用紙に1ページ1枚のデフォルト設定です。
func DefaultOptions() Options {
	return Options{
		Mode:          domain.OnePerPage,
		Orientation:   Landscape,
		PageSize:      Letter,
		Margin:        DefaultMargin,
		HeaderReserve: DefaultHeaderReserve,
	}
}

// Page はこのモードで実際に使う用紙の向きを返します。
func (o Options) Page() PageSize {
	if o.Mode == domain.TwoPerPage && o.Orientation == Landscape {
		return o.PageSize.Landscape()
	}
	return o.PageSize.Portrait()
}

// Capacity は1ページに置けるカード枚数です。
func (o Options) Capacity() int {
	if o.Mode == domain.TwoPerPage {
		return 2
	}
	return 1
}

// Validate はカードを置く余地があるかを検査します。
func (o Options) Validate() error {
	if o.PageSize.Width <= 0 || o.PageSize.Height <= 0 {
		return &domain.ValidationError{Field: "pageSize", Reason: "page dimensions must be positive"}
	}
	if o.Margin < 0 || o.HeaderReserve < 0 {
		return &domain.ValidationError{Field: "margin", Reason: "margin and header reserve must not be negative"}
	}
	if slots := o.slots(); len(slots) == 0 || slots[0].side <= 0 {
		return &domain.ValidationError{Field: "margin", Reason: "margins leave no room for a card"}
	}
	return nil
}

// slot はページ上のカード1枚分の正方形です。
type slot struct {
	x, y, side float64
}

// slots はこのモードのカード配置枠を配置順に返します。
func (o Options) slots() []slot {
	page := o.Page()
	m, header := o.Margin, o.HeaderReserve
	top := m + header

	if o.Mode != domain.TwoPerPage {
		side := math.Min(page.Width, page.Height) - 2*m - header
		return []slot{{x: (page.Width - side) / 2, y: top, side: side}}
	}

	if o.Orientation == Portrait {
		side := math.Min(page.Width-2*m, (page.Height-header-3*m)/2)
		x := (page.Width - side) / 2
		return []slot{
			{x: x, y: top, side: side},
			{x: x, y: top + side + m, side: side},
		}
	}

	// 左右の余白と中央の間隔で3つ分の margin を使う。
	side := math.Min((page.Width-3*m)/2, page.Height-2*m-header)
	left := (page.Width - (2*side + m)) / 2
	return []slot{
		{x: left, y: top, side: side},
		{x: left + side + m, y: top, side: side},
	}
}
