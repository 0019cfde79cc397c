package imgutil

import (
	"bytes"
	"fmt"
	"image"
)

// Dimensions は画像全体をデコードせず、ヘッダーから幅・高さと形式名を読み取ります。
// 形式名は image パッケージに登録された名前 ("png", "jpeg", "gif") です。
func Dimensions(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, format, fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, format, nil
}
