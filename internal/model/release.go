// Package model はドメインモデルを定義する。
package model

import "time"

// Platform はトラッキング対象のプラットフォーム識別子。
// 未知の値も許容される（合計にのみ計上される）。
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// ReleaseRecord はデータベース上のリリースレコード。
// 1レコードが1つの成果物パスに対する1回のプロモーションを表す。
// ロールバックは既存成果物を新しいレコードで再プロモーションするため、
// 複数のレコードが同一ファイルを参照しうる。レコードは追記専用で、
// 更新・削除は行わない。
type ReleaseRecord struct {
	ID            string  `json:"id"`
	Path          string  `json:"path"`
	CommitHash    *string `json:"commitHash"`
	CommitMessage *string `json:"commitMessage"`
}

// TrackingCount はリリースIDごと・プラットフォームごとのダウンロード計数行。
// 同一(release_id, platform)に複数行が存在しうるため、常に合算して扱う。
type TrackingCount struct {
	ReleaseID string `json:"release_id"`
	Platform  string `json:"platform"`
	Count     int64  `json:"count"`
}

// Downloads はプラットフォーム別ダウンロード数の集計。
// Total == IOS + Android が成立するのは既知プラットフォームのみの場合で、
// 未知プラットフォームの行はTotalにのみ寄与する。
type Downloads struct {
	IOS     int64 `json:"ios"`
	Android int64 `json:"android"`
	Total   int64 `json:"total"`
}

// Release はストレージ成果物とリリースレコードを突合した閲覧用ビュー。
// 永続化されない導出データであり、リクエストごとに再構築される。
// IDがnilの場合、成果物に対応するレコードが存在しないことを示す。
type Release struct {
	ID             *string   `json:"id"`
	Path           string    `json:"path"`
	RuntimeVersion string    `json:"runtimeVersion"`
	Timestamp      time.Time `json:"timestamp"`
	Size           int64     `json:"size"`
	CommitHash     *string   `json:"commitHash"`
	CommitMessage  *string   `json:"commitMessage"`
	Downloads      Downloads `json:"downloads"`
}

// VersionGroup はランタイムバージョンごとにまとめたリリース群。
// 表示用の導出データで、グループ内ダウンロード数の合計を持つ。
type VersionGroup struct {
	RuntimeVersion string    `json:"runtimeVersion"`
	Releases       []Release `json:"releases"`
	TotalDownloads Downloads `json:"totalDownloads"`
}
