package domain

import "fmt"

// Icon はビンゴのマスに描かれるアイコン1件です。
// アイコンストアが所有し、コアは読み取るだけです。
type Icon struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	ImageData           []byte `json:"-"`               // 埋め込み済みの画像バイナリ
	ImageURI            string `json:"image,omitempty"` // data:, http(s)://, gs://, ローカルパス
	ExcludeFromMultiHit bool   `json:"excludeFromMultiHit,omitempty"`
}

// IconPool は生成に使うアイコンの順序付き集合です。ID の重複は許可されません。
type IconPool []Icon

// Validate は空の ID と重複 ID を検出します。
func (p IconPool) Validate() error {
	seen := make(map[string]struct{}, len(p))
	for i, icon := range p {
		if icon.ID == "" {
			return &ValidationError{Field: "icons", Reason: fmt.Sprintf("icon at index %d has an empty id", i)}
		}
		if _, dup := seen[icon.ID]; dup {
			return &ValidationError{Field: "icons", Reason: fmt.Sprintf("duplicate icon id %q", icon.ID)}
		}
		seen[icon.ID] = struct{}{}
	}
	return nil
}

// Refs はプール内の各アイコンへのポインタを返します。
// Cell や CardSet はこのポインタを借用するだけで、アイコンを複製しません。
func (p IconPool) Refs() []*Icon {
	refs := make([]*Icon, len(p))
	for i := range p {
		refs[i] = &p[i]
	}
	return refs
}
