package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage はローカルファイルシステムを使うStorage実装。
// 開発・テスト用途を想定している。ストレージキーの "/" 区切りを
// OSのパス区切りに変換して扱う。
type LocalStorage struct {
	root string
}

// NewLocal はLocalStorageを生成する。
func NewLocal(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

// ListDirectories はprefix直下のサブディレクトリ名を返す。
// prefix自体が存在しない場合は空の一覧を返す（未初期化の環境を許容する）。
func (l *LocalStorage) ListDirectories(ctx context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(l.abs(prefix))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list directories under %q: %w", prefix, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// ListFiles はディレクトリ直下のファイル一覧を返す。
func (l *LocalStorage) ListFiles(ctx context.Context, dir string) ([]File, error) {
	entries, err := os.ReadDir(l.abs(dir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list files under %q: %w", dir, err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", e.Name(), err)
		}
		files = append(files, File{
			Name:      e.Name(),
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		})
	}
	return files, nil
}

// CopyFile はファイルをコピーする。コピー先のディレクトリは必要に応じて作成する。
func (l *LocalStorage) CopyFile(ctx context.Context, src, dst string) error {
	in, err := os.Open(l.abs(src))
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer in.Close()

	dstPath := l.abs(dst)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", dst, err)
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %q to %q: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finalize %q: %w", dst, err)
	}
	return nil
}

// abs はストレージキーをルート配下の絶対パスに変換する。
func (l *LocalStorage) abs(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

// compile-time interface check
var _ Storage = (*LocalStorage)(nil)
