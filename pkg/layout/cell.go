package layout

import (
	"math"
	"strconv"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

const (
	titleFontSize      = 18.0
	identifierFontSize = 10.0
	modeFontSize       = 9.0

	freeSpaceText = "FREE"
)

// headerOps はタイトル、左右に同じ識別子、ゲームモードを描く命令を返します。
func headerOps(card *domain.Card, size PageSize, opts Options) []domain.DrawOp {
	m := opts.Margin
	mode := "CLASSIC MODE"
	if card.MultiHitMode {
		mode = "MULTI-HIT MODE"
	}
	return []domain.DrawOp{
		{Kind: domain.OpText, X: m, Y: m + identifierFontSize, Text: card.Identifier, FontSize: identifierFontSize, Align: domain.AlignLeft, Color: domain.Gray},
		{Kind: domain.OpText, X: size.Width - m, Y: m + identifierFontSize, Text: card.Identifier, FontSize: identifierFontSize, Align: domain.AlignRight, Color: domain.Gray},
		{Kind: domain.OpText, X: size.Width / 2, Y: m + titleFontSize, Text: card.Title, FontSize: titleFontSize, Bold: true, Align: domain.AlignCenter},
		{Kind: domain.OpText, X: size.Width / 2, Y: m + titleFontSize + 2*modeFontSize, Text: mode, FontSize: modeFontSize, Align: domain.AlignCenter, Color: domain.Gray},
	}
}

// cardOps はカード1枚分のマスを行優先で描く命令を返します。
func (e *Engine) cardOps(p domain.CardPlacement, lookups map[string]imageLookup, opts Options) []domain.DrawOp {
	card := p.Card
	ops := make([]domain.DrawOp, 0, card.GridSize*card.GridSize*3)
	for r := 0; r < card.GridSize; r++ {
		for c := 0; c < card.GridSize; c++ {
			x, y := p.CellOrigin(r, c)
			ops = append(ops, e.cellOps(card.Cell(r, c), x, y, p.CellSize(), lookups, opts)...)
		}
	}
	return ops
}

// cellOps は枠線、中身 (FREE または画像とラベル)、マルチヒットのバッジの順で命令を返します。
func (e *Engine) cellOps(cell domain.Cell, x, y, size float64, lookups map[string]imageLookup, opts Options) []domain.DrawOp {
	ops := []domain.DrawOp{
		{Kind: domain.OpRect, X: x, Y: y, Width: size, Height: size, Style: domain.Stroke, Color: domain.Black},
	}

	if cell.IsFreeSpace {
		text := freeSpaceText
		if cell.HitCount > 1 {
			text += " x" + strconv.Itoa(cell.HitCount)
		}
		fs := size * 0.2
		ops = append(ops, domain.DrawOp{
			Kind: domain.OpText, X: x + size/2, Y: y + size/2 + fs*0.35,
			Text: text, FontSize: fs, Bold: true, Align: domain.AlignCenter,
		})
	} else if cell.Icon != nil {
		ops = append(ops, imageOp(cell.Icon, x, y, size, lookups[cell.Icon.ID]))
		if opts.ShowLabels && cell.Icon.Name != "" {
			ops = append(ops, e.labelOps(cell.Icon.Name, x, y, size)...)
		}
	}

	if cell.IsMultiHitTarget {
		ops = append(ops, badgeOps(cell.HitCount, x, y, size)...)
	}
	return ops
}

func imageOp(icon *domain.Icon, x, y, size float64, res imageLookup) domain.DrawOp {
	if res.unavailable {
		pad := size * ImagePaddingRatio
		return domain.DrawOp{
			Kind: domain.OpPlaceholder, X: x + pad, Y: y + pad,
			Width: size - 2*pad, Height: size - 2*pad, Icon: icon, Color: domain.Gray,
		}
	}
	dims := res.dims
	if dims.Width <= 0 || dims.Height <= 0 {
		dims = domain.SquareDimensions()
	}
	rect := ComputeDrawRect(float64(dims.Width), float64(dims.Height), size)
	return domain.DrawOp{
		Kind: domain.OpImage, X: x + rect.X, Y: y + rect.Y,
		Width: rect.Width, Height: rect.Height, Icon: icon,
	}
}

// labelOps はマス下部中央に白い下地とラベルを描きます。下地の幅は計測したテキスト幅に合わせます。
func (e *Engine) labelOps(name string, x, y, size float64) []domain.DrawOp {
	fs := math.Max(size*0.09, 5)
	pad := fs * 0.3
	width := math.Min(e.text.TextWidth(name, fs, false)+2*pad, size-2)
	height := fs * 1.4
	plateY := y + size - height - size*0.02
	return []domain.DrawOp{
		{Kind: domain.OpRect, X: x + (size-width)/2, Y: plateY, Width: width, Height: height, Style: domain.Fill, Color: domain.White},
		{Kind: domain.OpText, X: x + size/2, Y: plateY + fs*1.05, Text: name, FontSize: fs, Align: domain.AlignCenter},
	}
}

// badgeOps はマス右上に円形のバッジとヒット数を描きます。
func badgeOps(hits int, x, y, size float64) []domain.DrawOp {
	r := size * 0.12
	inset := size * 0.04
	cx := x + size - r - inset
	cy := y + r + inset
	fs := r * 1.2
	return []domain.DrawOp{
		{Kind: domain.OpCircle, X: cx, Y: cy, Radius: r, Style: domain.Fill, Color: domain.Red},
		{Kind: domain.OpText, X: cx, Y: cy + fs*0.35, Text: strconv.Itoa(hits), FontSize: fs, Bold: true, Align: domain.AlignCenter, Color: domain.White},
	}
}
