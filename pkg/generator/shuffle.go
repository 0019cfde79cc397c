package generator

// Shuffle は Fisher–Yates で xs をその場で並べ替えます。
// 空スライスと要素1個のスライスは何もしません。
func Shuffle[T any](rng RNG, xs []T) {
	for i := len(xs) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// Shuffled は xs のコピーを並べ替えて返します。xs 自体は変更しません。
func Shuffled[T any](rng RNG, xs []T) []T {
	out := append([]T(nil), xs...)
	Shuffle(rng, out)
	return out
}
