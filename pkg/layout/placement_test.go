package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDrawRect(t *testing.T) {
	const delta = 1e-9

	cases := []struct {
		name string
		w, h float64
		want Rect
	}{
		{"横長は幅に合わせる", 200, 100, Rect{X: 10, Y: 30, Width: 80, Height: 40}},
		{"縦長は高さに合わせる", 50, 100, Rect{X: 30, Y: 10, Width: 40, Height: 80}},
		{"正方形は余白いっぱい", 300, 300, Rect{X: 10, Y: 10, Width: 80, Height: 80}},
		{"寸法不明は正方形扱い", 0, 0, Rect{X: 10, Y: 10, Width: 80, Height: 80}},
		{"小さな画像も拡大する", 8, 4, Rect{X: 10, Y: 30, Width: 80, Height: 40}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeDrawRect(tc.w, tc.h, 100)
			assert.InDelta(t, tc.want.X, got.X, delta)
			assert.InDelta(t, tc.want.Y, got.Y, delta)
			assert.InDelta(t, tc.want.Width, got.Width, delta)
			assert.InDelta(t, tc.want.Height, got.Height, delta)
		})
	}

	t.Run("縦横比を保つ", func(t *testing.T) {
		got := ComputeDrawRect(1600, 900, 72)
		assert.InDelta(t, 1600.0/900.0, got.Width/got.Height, 1e-9)
		assert.LessOrEqual(t, got.Width, 72*(1-2*ImagePaddingRatio)+delta)
	})
}
