package domain

// LayoutMode は1ページに並べるカード枚数です。
type LayoutMode int

const (
	OnePerPage LayoutMode = iota
	TwoPerPage
)

func (m LayoutMode) String() string {
	if m == TwoPerPage {
		return "two-per-page"
	}
	return "one-per-page"
}

// CardPlacement はページ上のカード1枚の位置です。カードは常に正方形です。
type CardPlacement struct {
	Card      *Card
	OriginX   float64
	OriginY   float64
	CardWidth float64
}

// CardHeight は CardWidth と同じ値を返します。
func (p CardPlacement) CardHeight() float64 {
	return p.CardWidth
}

// CellSize は1マスの一辺の長さです。
func (p CardPlacement) CellSize() float64 {
	if p.Card == nil || p.Card.GridSize == 0 {
		return 0
	}
	return p.CardWidth / float64(p.Card.GridSize)
}

// CellOrigin はマス (row, col) の左上座標です。
func (p CardPlacement) CellOrigin(row, col int) (float64, float64) {
	size := p.CellSize()
	return p.OriginX + float64(col)*size, p.OriginY + float64(row)*size
}

// PageLayout は1ページ分の配置と描画命令です。
type PageLayout struct {
	PageIndex  int
	SetIndex   int
	Identifier string
	Width      float64
	Height     float64
	Placements []CardPlacement
	Ops        []DrawOp
}

// OpKind は描画命令の種類です。
type OpKind int

const (
	OpRect OpKind = iota
	OpText
	OpImage
	OpCircle
	OpPlaceholder
)

func (k OpKind) String() string {
	switch k {
	case OpRect:
		return "rect"
	case OpText:
		return "text"
	case OpImage:
		return "image"
	case OpCircle:
		return "circle"
	case OpPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// TextAlign はテキストの水平方向の揃え位置です。X が基準点になります。
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// PaintStyle は図形の塗り方です。
type PaintStyle int

const (
	Stroke PaintStyle = iota
	Fill
	FillStroke
)

// Color は 0-255 の RGB です。
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
	Red   = Color{R: 220, G: 38, B: 38}
	Gray  = Color{R: 160, G: 160, B: 160}
)

// DrawOp はレンダラーに渡す描画命令1件です。
//
// Rect/Image/Placeholder は (X, Y) が左上、Width/Height がサイズです。
// Circle は (X, Y) が中心、Radius が半径です。
// Text は (X, Y) がベースライン上の基準点で、Align に従って揃えます。
type DrawOp struct {
	Kind     OpKind
	X, Y     float64
	Width    float64
	Height   float64
	Radius   float64
	Text     string
	FontSize float64
	Bold     bool
	Align    TextAlign
	Style    PaintStyle
	Color    Color
	Icon     *Icon
}
