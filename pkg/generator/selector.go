package generator

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

// DefaultRetryCap は他セットと異なる候補を探す試行回数の上限です。
const DefaultRetryCap = 50

// Outcome はセット選択の結果種別です。
type Outcome int

const (
	// Accepted は他のどのセットとも異なる候補を採用したことを示します。
	Accepted Outcome = iota
	// AcceptedDegraded は重複を避けられないまま最後の候補を採用したことを示します。
	AcceptedDegraded
)

func (o Outcome) String() string {
	if o == AcceptedDegraded {
		return "accepted_degraded"
	}
	return "accepted"
}

// Selection は1セット分の選択結果です。
type Selection struct {
	Set      domain.CardSet
	Outcome  Outcome
	Attempts int
}

// Warning は劣化した選択を DegradedUniquenessWarning に変換します。
func (s Selection) Warning() (domain.DegradedUniquenessWarning, bool) {
	if s.Outcome != AcceptedDegraded {
		return domain.DegradedUniquenessWarning{}, false
	}
	return domain.DegradedUniquenessWarning{SetIndex: s.Set.SetIndex, Attempts: s.Attempts}, true
}

// Selector はプールから各セットのアイコン集合を選びます。
type Selector struct {
	rng      RNG
	retryCap int
	logger   *slog.Logger
}

// NewSelector は Selector を初期化します。retryCap が 0 以下なら DefaultRetryCap を使います。
func NewSelector(rng RNG, retryCap int, logger *slog.Logger) *Selector {
	if retryCap <= 0 {
		retryCap = DefaultRetryCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{rng: rng, retryCap: retryCap, logger: logger}
}

// Select は req.SetCount 個のセットを選びます。
// プールが1セット分に満たない場合は、乱数を使う前に InsufficientIconsError を返します。
func (s *Selector) Select(pool []*domain.Icon, req domain.GenerationRequest) ([]Selection, error) {
	needed := req.IconsPerSet()
	if len(pool) < needed {
		return nil, &domain.InsufficientIconsError{Required: needed, Available: len(pool)}
	}

	work := append([]*domain.Icon(nil), pool...)
	selections := make([]Selection, 0, req.SetCount)

	// 1セットのみ、またはプールがちょうど1セット分なら探索は不要。
	if req.SetCount == 1 || len(pool) == needed {
		for i := 0; i < req.SetCount; i++ {
			outcome := Accepted
			if i > 0 {
				// ちょうど1セット分のプールでは全セットが同じ集合になる。
				outcome = AcceptedDegraded
			}
			selections = append(selections, s.accept(i, s.draw(work, needed), outcome, 1))
		}
		return selections, nil
	}

	seen := make(map[string]struct{}, req.SetCount)
	for i := 0; i < req.SetCount; i++ {
		var candidate []*domain.Icon
		attempts := 0
		outcome := AcceptedDegraded
		for attempts < s.retryCap {
			attempts++
			candidate = s.draw(work, needed)
			if _, dup := seen[setKey(candidate)]; !dup {
				outcome = Accepted
				break
			}
		}
		seen[setKey(candidate)] = struct{}{}
		selections = append(selections, s.accept(i, candidate, outcome, attempts))
	}
	return selections, nil
}

func (s *Selector) accept(setIndex int, icons []*domain.Icon, outcome Outcome, attempts int) Selection {
	if outcome == AcceptedDegraded {
		s.logger.Warn("重複しないアイコン集合が見つからなかったため最後の候補を採用します",
			"set_index", setIndex, "attempts", attempts)
	}
	return Selection{
		Set: domain.CardSet{
			SetIndex:      setIndex,
			Identifier:    ComputeIdentifier(icons),
			SelectedIcons: icons,
		},
		Outcome:  outcome,
		Attempts: attempts,
	}
}

// draw は work を並べ替え、先頭 n 件のコピーを返します。
func (s *Selector) draw(work []*domain.Icon, n int) []*domain.Icon {
	Shuffle(s.rng, work)
	return append([]*domain.Icon(nil), work[:n]...)
}

// setKey は ID 集合を順序に依存しないキーに変換します。
// 候補はすべて同じ件数なので、キーが異なれば対称差は空になりません。
func setKey(icons []*domain.Icon) string {
	ids := make([]string, len(icons))
	for i, icon := range icons {
		ids[i] = icon.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}
