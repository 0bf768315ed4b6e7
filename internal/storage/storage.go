// Package storage はリリース成果物を保持するオブジェクトストレージへの
// アクセスを提供する。バックエンドはインターフェースとして抽象化し、
// 起動時に設定で選択する。
package storage

import (
	"context"
	"fmt"
	"time"
)

// File はストレージ上の成果物1件のメタデータ。
// ランタイムバージョンはファイル自身には保存されず、
// 格納ディレクトリ名から推定される。
type File struct {
	Name      string
	CreatedAt time.Time
	Size      int64
}

// Storage はオブジェクトストレージバックエンドの能力セット。
// パスは常に "/" 区切りのストレージキーで表現する。
// タイムアウト・リトライはバックエンド実装側の責務であり、
// 呼び出し側はエラーを終端として扱う。
type Storage interface {
	// ListDirectories はprefix直下のディレクトリ名一覧を返す。
	ListDirectories(ctx context.Context, prefix string) ([]string, error)
	// ListFiles はディレクトリ直下のファイル一覧を返す。
	ListFiles(ctx context.Context, dir string) ([]File, error)
	// CopyFile は成果物をコピーする。コピー元は削除しない。
	CopyFile(ctx context.Context, src, dst string) error
}

// Config はストレージバックエンドの選択と接続設定。
type Config struct {
	Driver    string // "s3" または "local"
	LocalRoot string

	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// New は設定に応じたStorage実装を生成する（ストラテジー選択は起動時に1回）。
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3(ctx, S3Config{
			Region:          cfg.Region,
			Bucket:          cfg.Bucket,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			SessionToken:    cfg.SessionToken,
		})
	case "local":
		return NewLocal(cfg.LocalRoot), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}
