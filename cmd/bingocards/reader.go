package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

var _ remoteio.InputReader = localReader{}

// localReader はローカルファイルを remoteio.InputReader として開きます。
// 相対パスはマニフェスト読み込み時に解決済みです。
type localReader struct{}

func (r localReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(r.path(uri))
}

func (r localReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return filepath.WalkDir(r.path(uri), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return fn(path)
	})
}

func (r localReader) path(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
