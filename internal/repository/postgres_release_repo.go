package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hitoshi/releaseman/internal/model"
)

// PostgresReleaseRepo はPostgreSQLを使用したリリースリポジトリ。
type PostgresReleaseRepo struct {
	db *sql.DB
}

// NewPostgresReleaseRepo はPostgresReleaseRepoを生成する。
func NewPostgresReleaseRepo(db *sql.DB) *PostgresReleaseRepo {
	return &PostgresReleaseRepo{db: db}
}

// ListReleases は全リリースレコードを取得する。
func (r *PostgresReleaseRepo) ListReleases(ctx context.Context) ([]model.ReleaseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, path, commit_hash, commit_message
		 FROM releases
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer rows.Close()

	var records []model.ReleaseRecord
	for rows.Next() {
		var rec model.ReleaseRecord
		var commitHash, commitMessage sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Path, &commitHash, &commitMessage); err != nil {
			return nil, fmt.Errorf("failed to scan release: %w", err)
		}
		rec.CommitHash = nullableString(commitHash)
		rec.CommitMessage = nullableString(commitMessage)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate releases: %w", err)
	}

	return records, nil
}

// GetTrackingCountsPerRelease はリリースID・プラットフォームごとの合算済み計数を取得する。
func (r *PostgresReleaseRepo) GetTrackingCountsPerRelease(ctx context.Context) ([]model.TrackingCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT release_id, platform, COALESCE(SUM(count), 0)
		 FROM tracking
		 GROUP BY release_id, platform`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking counts: %w", err)
	}
	defer rows.Close()

	return scanTrackingCounts(rows)
}

// GetReleaseTrackingMetrics は指定リリースの計数行を取得する。
func (r *PostgresReleaseRepo) GetReleaseTrackingMetrics(ctx context.Context, releaseID string) ([]model.TrackingCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT release_id, platform, count
		 FROM tracking
		 WHERE release_id = $1
		 ORDER BY created_at`,
		releaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking metrics for release %s: %w", releaseID, err)
	}
	defer rows.Close()

	return scanTrackingCounts(rows)
}

// GetReleaseTrackingMetricsForAllReleases は全リリースの計数行を合算せず取得する。
func (r *PostgresReleaseRepo) GetReleaseTrackingMetricsForAllReleases(ctx context.Context) ([]model.TrackingCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT release_id, platform, count
		 FROM tracking
		 ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking metrics: %w", err)
	}
	defer rows.Close()

	return scanTrackingCounts(rows)
}

// CreateRelease は新しいリリースレコードを挿入する。IDはここで採番する。
func (r *PostgresReleaseRepo) CreateRelease(ctx context.Context, path string, commitHash, commitMessage *string) (*model.ReleaseRecord, error) {
	rec := &model.ReleaseRecord{
		ID:            uuid.NewString(),
		Path:          path,
		CommitHash:    commitHash,
		CommitMessage: commitMessage,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO releases (id, path, commit_hash, commit_message)
		 VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Path, rec.CommitHash, rec.CommitMessage,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create release: %w", err)
	}

	return rec, nil
}

func scanTrackingCounts(rows *sql.Rows) ([]model.TrackingCount, error) {
	var counts []model.TrackingCount
	for rows.Next() {
		var tc model.TrackingCount
		if err := rows.Scan(&tc.ReleaseID, &tc.Platform, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tracking count: %w", err)
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracking counts: %w", err)
	}
	return counts, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// compile-time interface check
var _ ReleaseRepository = (*PostgresReleaseRepo)(nil)
