package domain

// ImageDimensions は画像の元のピクセルサイズです。
// Known が false の場合は寸法が取得できなかったことを示し、正方形として扱います。
type ImageDimensions struct {
	Width  int
	Height int
	Known  bool
}

// SquareDimensions は寸法不明時に使う正方形のフォールバックです。
func SquareDimensions() ImageDimensions {
	return ImageDimensions{Width: 1, Height: 1}
}
