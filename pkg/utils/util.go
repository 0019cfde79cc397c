package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// DereferenceSeed は、int64のポインタを安全にデリファレンスします。
// ポインタがnilの場合は0を返します。
func DereferenceSeed(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

// NewSeed は crypto/rand から乱数シードを生成します。
// 実行ごとにシードがばらつけばよく、暗号強度は求めていません。
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed は seed が指定されていればその値を、なければ newSeed の結果を返します。
func ResolveSeed(seed *int64, newSeed func() (int64, error)) (int64, error) {
	if seed != nil {
		return DereferenceSeed(seed), nil
	}
	return newSeed()
}
