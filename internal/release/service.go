// Package release はストレージ成果物・リリースレコード・ダウンロード計測を
// 突合したリリースビューの構築と、ロールバックの実行を提供する。
package release

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hitoshi/releaseman/internal/metrics"
	"github.com/hitoshi/releaseman/internal/model"
	"github.com/hitoshi/releaseman/internal/repository"
	"github.com/hitoshi/releaseman/internal/storage"
)

// ロールバックの前提条件違反。ハンドラー層で400に変換される。
var (
	ErrMissingPath           = errors.New("rollback path is required")
	ErrMissingRuntimeVersion = errors.New("rollback runtime version is required")
)

// Service はリリース突合とロールバックを担うドメインサービス。
// リクエストスコープで動作し、リクエスト間で共有する可変状態を持たない。
type Service struct {
	storage   storage.Storage
	repo      repository.ReleaseRepository
	prefix    string // 成果物ルートプレフィックス（例: "updates"）
	collector metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceを生成する。nowがnilの場合はtime.Nowを使う。
func NewService(st storage.Storage, repo repository.ReleaseRepository, prefix string, collector metrics.MetricsCollector, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		storage:   st,
		repo:      repo,
		prefix:    prefix,
		collector: collector,
		now:       now,
	}
}

// ListReleases はストレージ成果物一覧とリリースレコード・ダウンロード計数を
// 突合し、閲覧用のリリースビュー列を返す。
//
// リリースレコードと計数の取得は相互に依存しないため並行に発行する。
// いずれかのコラボレーター呼び出しが失敗した場合は部分結果を返さず、
// 全体を失敗として返す。
func (s *Service) ListReleases(ctx context.Context) ([]model.Release, error) {
	start := s.now()

	var records []model.ReleaseRecord
	var counts []model.TrackingCount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.repo.ListReleases(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repo.GetTrackingCountsPerRelease(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load release records: %w", err)
	}

	downloads := aggregateDownloads(counts)
	recordsByPath := indexRecordsByPath(records)

	dirs, err := s.storage.ListDirectories(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list runtime version directories: %w", err)
	}

	var releases []model.Release
	for _, dir := range dirs {
		dirPath := s.prefix + "/" + dir
		files, err := s.storage.ListFiles(ctx, dirPath)
		if err != nil {
			return nil, fmt.Errorf("failed to list artifacts under %q: %w", dirPath, err)
		}

		for _, f := range files {
			artifactPath := dirPath + "/" + f.Name
			rel := model.Release{
				Path:           artifactPath,
				RuntimeVersion: dir,
				Timestamp:      f.CreatedAt,
				Size:           f.Size,
			}

			if rec, ok := recordsByPath[artifactPath]; ok {
				id := rec.ID
				rel.ID = &id
				rel.CommitHash = rec.CommitHash
				rel.CommitMessage = rec.CommitMessage
				rel.Downloads = downloads[rec.ID]
			}

			releases = append(releases, rel)
		}
	}

	if s.collector != nil {
		s.collector.RecordReconcileLatency(s.now().Sub(start))
		s.collector.RecordReleasesListed(len(releases))
	}

	return releases, nil
}

// Rollback は既存成果物を新しいタイムスタンプ付きの宛先へコピーし、
// その宛先を参照する新しいリリースレコードを挿入する。
//
// 2ステップは厳密にこの順序で行う: コピーが失敗した場合レコードは
// 決して作られない。コピー成功後にレコード挿入が失敗した場合、
// 参照されない成果物が1つ残るが、レコードが無い限りリリースとして
// 露出しないため致命的ではない。
func (s *Service) Rollback(ctx context.Context, sourcePath, runtimeVersion string, commitHash, commitMessage *string) (*model.ReleaseRecord, error) {
	if sourcePath == "" {
		return nil, ErrMissingPath
	}
	if runtimeVersion == "" {
		return nil, ErrMissingRuntimeVersion
	}

	// 現在時刻を名前に含めることで、コピーが作成時刻順で必ず最新になる。
	// 旧成果物の削除は不要（レコードは追記専用）。
	destPath := fmt.Sprintf("%s/%s/%d_%s", s.prefix, runtimeVersion, s.now().UnixMilli(), path.Base(sourcePath))

	if err := s.storage.CopyFile(ctx, sourcePath, destPath); err != nil {
		return nil, fmt.Errorf("failed to copy artifact for rollback: %w", err)
	}

	rec, err := s.repo.CreateRelease(ctx, destPath, commitHash, commitMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to record rollback release at %q: %w", destPath, err)
	}

	if s.collector != nil {
		s.collector.RecordRollback()
	}

	return rec, nil
}

// aggregateDownloads は計数行をリリースIDごとに集計する。
// 既知プラットフォーム（ios/android）は対応するフィールドと合計の両方に、
// 未知プラットフォームは合計にのみ加算する（将来プラットフォームへの前方互換）。
func aggregateDownloads(counts []model.TrackingCount) map[string]model.Downloads {
	agg := make(map[string]model.Downloads)
	for _, tc := range counts {
		d := agg[tc.ReleaseID]
		switch tc.Platform {
		case model.PlatformIOS:
			d.IOS += tc.Count
		case model.PlatformAndroid:
			d.Android += tc.Count
		}
		d.Total += tc.Count
		agg[tc.ReleaseID] = d
	}
	return agg
}

// indexRecordsByPath はパス→レコードの索引を構築する。
// 同一パスのレコードが複数ある場合は最初に現れたものが勝つ
// （文書化されたタイブレーク）。
func indexRecordsByPath(records []model.ReleaseRecord) map[string]model.ReleaseRecord {
	index := make(map[string]model.ReleaseRecord, len(records))
	for _, rec := range records {
		if _, exists := index[rec.Path]; !exists {
			index[rec.Path] = rec
		}
	}
	return index
}

// SortByTimestampDesc はリリース列を成果物の作成時刻降順に並べ替えた
// コピーを返す。先頭が「アクティブ」なリリースに相当する。
func SortByTimestampDesc(releases []model.Release) []model.Release {
	sorted := make([]model.Release, len(releases))
	copy(sorted, releases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

// GroupByRuntimeVersion はリリース列をランタイムバージョンごとにまとめ、
// グループ内ダウンロード数の合計を付与する。並び順は入力列における
// 各バージョンの初出順を保つ。永続化されない表示用の導出データ。
func GroupByRuntimeVersion(releases []model.Release) []model.VersionGroup {
	var order []string
	grouped := make(map[string][]model.Release)
	for _, rel := range releases {
		if _, seen := grouped[rel.RuntimeVersion]; !seen {
			order = append(order, rel.RuntimeVersion)
		}
		grouped[rel.RuntimeVersion] = append(grouped[rel.RuntimeVersion], rel)
	}

	groups := make([]model.VersionGroup, 0, len(order))
	for _, version := range order {
		members := grouped[version]
		var total model.Downloads
		for _, rel := range members {
			total.IOS += rel.Downloads.IOS
			total.Android += rel.Downloads.Android
			total.Total += rel.Downloads.Total
		}
		groups = append(groups, model.VersionGroup{
			RuntimeVersion: version,
			Releases:       members,
			TotalDownloads: total,
		})
	}
	return groups
}
