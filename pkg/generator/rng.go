package generator

import "math/rand"

// RNG は生成処理で使う乱数源です。テストでは決定的な実装に差し替えます。
type RNG interface {
	// Intn は [0, n) の乱数を返します。
	Intn(n int) int
	// Float64 は [0.0, 1.0) の乱数を返します。
	Float64() float64
}

// NewRNG はシード固定の擬似乱数源を返します。
func NewRNG(seed int64) RNG {
	return rand.New(rand.NewSource(seed))
}
