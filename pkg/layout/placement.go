package layout

// ImagePaddingRatio はマスの各辺に確保する余白の割合です。
const ImagePaddingRatio = 0.10

// Rect はマス左上を原点とした描画矩形です。
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// ComputeDrawRect は画像をマス中央に、縦横比を保ったまま余白内に収まるよう配置します。
// 元の寸法が不明 (0 以下) の場合は正方形として扱います。
func ComputeDrawRect(nativeWidth, nativeHeight, cellSize float64) Rect {
	if nativeWidth <= 0 || nativeHeight <= 0 {
		nativeWidth, nativeHeight = 1, 1
	}
	box := cellSize * (1 - 2*ImagePaddingRatio)
	if box <= 0 {
		return Rect{X: cellSize / 2, Y: cellSize / 2}
	}

	scale := box / nativeWidth
	if s := box / nativeHeight; s < scale {
		scale = s
	}
	w := nativeWidth * scale
	h := nativeHeight * scale
	return Rect{
		X:      (cellSize - w) / 2,
		Y:      (cellSize - h) / 2,
		Width:  w,
		Height: h,
	}
}
