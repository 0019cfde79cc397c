package layout

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

// --- Mocks ---

// mockMeasurer はアイコン ID ごとに寸法かエラーを返します。
// block に含まれる ID は ctx が終わるまで応答しません。
type mockMeasurer struct {
	mu    sync.Mutex
	dims  map[string]domain.ImageDimensions
	errs  map[string]error
	block map[string]bool
	calls map[string]int

	// delay は各応答までの待ち時間です。inFlight と maxInFlight は同時実行数を記録します。
	delay       time.Duration
	inFlight    int
	maxInFlight int
}

func newMockMeasurer() *mockMeasurer {
	return &mockMeasurer{
		dims:  make(map[string]domain.ImageDimensions),
		errs:  make(map[string]error),
		block: make(map[string]bool),
		calls: make(map[string]int),
	}
}

func (m *mockMeasurer) Dimensions(ctx context.Context, icon *domain.Icon) (domain.ImageDimensions, error) {
	m.mu.Lock()
	m.calls[icon.ID]++
	dims, hasDims := m.dims[icon.ID]
	err := m.errs[icon.ID]
	block := m.block[icon.ID]
	m.inFlight++
	m.maxInFlight = max(m.maxInFlight, m.inFlight)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	if block {
		<-ctx.Done()
		return domain.ImageDimensions{}, ctx.Err()
	}
	if err != nil {
		return domain.ImageDimensions{}, err
	}
	if !hasDims {
		return domain.ImageDimensions{Width: 64, Height: 64, Known: true}, nil
	}
	return dims, nil
}

func (m *mockMeasurer) peakConcurrency() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

func (m *mockMeasurer) callCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

// fixedText は常に同じ幅を返す TextMeasurer です。
type fixedText float64

func (f fixedText) TextWidth(string, float64, bool) float64 { return float64(f) }

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// singleCellCard は1x1のカードを作ります。
func singleCellCard(setIndex int, cell domain.Cell) *domain.Card {
	return &domain.Card{
		Title:        "Road Trip Bingo",
		Identifier:   "AB12C",
		SetIndex:     setIndex,
		GridSize:     1,
		MultiHitMode: cell.IsMultiHitTarget,
		Grid:         [][]domain.Cell{{cell}},
	}
}

// cardsForSets は各セットに n 枚ずつ、2x2 のカードを作ります。
func cardsForSets(sets, n int) []*domain.Card {
	icons := []*domain.Icon{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	var cards []*domain.Card
	for s := 0; s < sets; s++ {
		for i := 0; i < n; i++ {
			cards = append(cards, &domain.Card{
				Identifier: "SET0" + string(rune('A'+s)),
				SetIndex:   s,
				CardIndex:  i,
				GridSize:   2,
				Grid: [][]domain.Cell{
					{{Icon: icons[0], HitCount: 1}, {Icon: icons[1], HitCount: 1}},
					{{Icon: icons[2], HitCount: 1}, {Icon: icons[3], HitCount: 1}},
				},
			})
		}
	}
	return cards
}

func opKinds(ops []domain.DrawOp) []domain.OpKind {
	kinds := make([]domain.OpKind, len(ops))
	for i, op := range ops {
		kinds[i] = op.Kind
	}
	return kinds
}

func opsOfKind(ops []domain.DrawOp, kind domain.OpKind) []domain.DrawOp {
	var out []domain.DrawOp
	for _, op := range ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}
