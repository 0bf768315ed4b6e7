// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/releaseman/internal/model"
)

// ReleaseRepository はリリースレコードとダウンロード計測の永続化インターフェース。
// リリースレコードは追記専用で、更新・削除の操作は存在しない。
type ReleaseRepository interface {
	// ListReleases は全リリースレコードを取得する。
	ListReleases(ctx context.Context) ([]model.ReleaseRecord, error)

	// GetTrackingCountsPerRelease はリリースID・プラットフォームごとに
	// 合算したダウンロード計数を取得する。
	GetTrackingCountsPerRelease(ctx context.Context) ([]model.TrackingCount, error)

	// GetReleaseTrackingMetrics は指定リリースの計数行を取得する。
	GetReleaseTrackingMetrics(ctx context.Context, releaseID string) ([]model.TrackingCount, error)

	// GetReleaseTrackingMetricsForAllReleases は全リリースの計数行を
	// 合算せずそのまま取得する。
	GetReleaseTrackingMetricsForAllReleases(ctx context.Context) ([]model.TrackingCount, error)

	// CreateRelease は新しいリリースレコードを挿入し、採番されたIDを含む
	// レコードを返す。
	CreateRelease(ctx context.Context, path string, commitHash, commitMessage *string) (*model.ReleaseRecord, error)
}
