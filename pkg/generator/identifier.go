package generator

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

const identifierLength = 5

// ComputeIdentifier はアイコン集合から5文字の表示用識別子を計算します。
// ID をソートしてから連結するため、並び順に依存しません。
// 32bit ハッシュなので衝突はあり得ますが、表示専用のため許容しています。
func ComputeIdentifier(icons []*domain.Icon) string {
	ids := make([]string, len(icons))
	for i, icon := range icons {
		ids[i] = icon.ID
	}
	return IdentifierFromIDs(ids)
}

// IdentifierFromIDs は ID の一覧から識別子を計算します。ids は変更しません。
// ID は UTF-16 のコード単位順に並べます。UTF-8 のバイト順とは、
// サロゲートペアを含む ID と U+E000〜U+FFFF の文字を含む ID の前後が入れ替わります。
func IdentifierFromIDs(ids []string) string {
	units := make([][]uint16, len(ids))
	for i, id := range ids {
		units[i] = utf16.Encode([]rune(id))
	}
	slices.SortFunc(units, func(a, b []uint16) int { return slices.Compare(a, b) })

	// hash*31 + code を int32 で折り返す。
	var hash int32
	for _, id := range units {
		for _, unit := range id {
			hash = hash*31 + int32(unit)
		}
	}

	v := int64(hash)
	if v < 0 {
		v = -v
	}
	code := strings.ToUpper(strconv.FormatInt(v, 36))
	if len(code) < identifierLength {
		code = strings.Repeat("0", identifierLength-len(code)) + code
	}
	return code[:identifierLength]
}
