package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/bingo-card-kit/pkg/domain"
)

// loadManifest はアイコン一覧の JSON を読み込みます。
// 相対パスの画像はマニフェストのあるディレクトリ基準で解決します。
func loadManifest(path string) (domain.IconPool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var pool domain.IconPool
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range pool {
		pool[i].ImageURI = resolveImagePath(dir, pool[i].ImageURI)
	}
	return pool, nil
}

func resolveImagePath(dir, uri string) string {
	if uri == "" || strings.Contains(uri, "://") || strings.HasPrefix(uri, "data:") || filepath.IsAbs(uri) {
		return uri
	}
	return filepath.Join(dir, uri)
}
