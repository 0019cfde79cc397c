package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest は ValidationError の判定用センチネルです。
	ErrInvalidRequest = errors.New("invalid generation request")
	// ErrInsufficientIcons は InsufficientIconsError の判定用センチネルです。
	ErrInsufficientIcons = errors.New("insufficient icons")
	// ErrImageUnavailable は ImageUnavailableError の判定用センチネルです。
	ErrImageUnavailable = errors.New("image unavailable")
)

// ValidationError は不正な GenerationRequest やアイコンプールを表します。
// 乱数を使う処理より前に返され、内部でリトライされることはありません。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// InsufficientIconsError はプールが1セット分のアイコン数に満たない場合のエラーです。
type InsufficientIconsError struct {
	Required  int
	Available int
}

func (e *InsufficientIconsError) Error() string {
	return fmt.Sprintf("not enough icons: need %d, have %d", e.Required, e.Available)
}

func (e *InsufficientIconsError) Is(target error) bool {
	return target == ErrInsufficientIcons
}

// ImageUnavailableError はアイコン画像を取得・デコードできなかったことを表します。
// 影響は該当マスだけに留まり、ページやドキュメントの生成は止まりません。
type ImageUnavailableError struct {
	IconID string
	Cause  error
}

func (e *ImageUnavailableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("image for icon %q unavailable", e.IconID)
	}
	return fmt.Sprintf("image for icon %q unavailable: %v", e.IconID, e.Cause)
}

func (e *ImageUnavailableError) Unwrap() error {
	return e.Cause
}

func (e *ImageUnavailableError) Is(target error) bool {
	return target == ErrImageUnavailable
}

// DegradedUniquenessWarning は致命的ではない通知です。
// リトライ上限に達しても他のセットと異なる候補が見つからず、最後の候補を採用したことを示します。
type DegradedUniquenessWarning struct {
	SetIndex int
	Attempts int
}

func (w DegradedUniquenessWarning) String() string {
	return fmt.Sprintf("set %d: no distinct icon subset found after %d attempts", w.SetIndex, w.Attempts)
}
