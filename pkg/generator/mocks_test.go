package generator

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

// --- Mocks ---

// fixedRNG は常に同じ値を返す乱数源です。
// Intn は n-1 を上限に丸めます。
type fixedRNG struct {
	intn  int
	float float64
}

func (f *fixedRNG) Intn(n int) int {
	if f.intn >= n {
		return n - 1
	}
	return f.intn
}

func (f *fixedRNG) Float64() float64 {
	return f.float
}

// panicRNG は乱数が消費されないことを確かめるためのモックです。
type panicRNG struct{}

func (panicRNG) Intn(int) int      { panic("rng must not be used") }
func (panicRNG) Float64() float64 { panic("rng must not be used") }

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makePool(n int) domain.IconPool {
	pool := make(domain.IconPool, n)
	for i := range pool {
		pool[i] = domain.Icon{ID: fmt.Sprintf("icon-%02d", i), Name: fmt.Sprintf("Icon %d", i)}
	}
	return pool
}

func iconIDs(icons []*domain.Icon) []string {
	ids := make([]string, len(icons))
	for i, icon := range icons {
		ids[i] = icon.ID
	}
	return ids
}

// gridIDs はカードの並びを ID で表します。フリースペースは "FREE" です。
func gridIDs(card *domain.Card) [][]string {
	out := make([][]string, len(card.Grid))
	for r, row := range card.Grid {
		out[r] = make([]string, len(row))
		for c, cell := range row {
			if cell.IsFreeSpace {
				out[r][c] = "FREE"
				continue
			}
			out[r][c] = cell.Icon.ID
		}
	}
	return out
}
