package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/releaseman/internal/model"
)

// TrackingReaderInterface はトラッキングハンドラーが必要とする読み取りインターフェース。
// repository.ReleaseRepositoryの部分集合として定義する。
type TrackingReaderInterface interface {
	// ListReleases は全リリースレコードを取得する（総数の算出に使う）。
	ListReleases(ctx context.Context) ([]model.ReleaseRecord, error)
	// GetReleaseTrackingMetrics は指定リリースの計数行を取得する。
	GetReleaseTrackingMetrics(ctx context.Context, releaseID string) ([]model.TrackingCount, error)
	// GetReleaseTrackingMetricsForAllReleases は全リリースの計数行を取得する。
	GetReleaseTrackingMetricsForAllReleases(ctx context.Context) ([]model.TrackingCount, error)
}

// TrackingHandler はダウンロード計測のHTTPハンドラー。
type TrackingHandler struct {
	reader TrackingReaderInterface
}

// NewTrackingHandler はTrackingHandlerを生成する。
func NewTrackingHandler(reader TrackingReaderInterface) *TrackingHandler {
	return &TrackingHandler{reader: reader}
}

// allTrackingsResponse は全リリース計測データのAPIレスポンス。
type allTrackingsResponse struct {
	Trackings     []model.TrackingCount `json:"trackings"`
	TotalReleases int                   `json:"totalReleases"`
}

// GetAll は全リリースの計数行とリリース総数を返す。
// GET /tracking/all
func (h *TrackingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	trackings, err := h.reader.GetReleaseTrackingMetricsForAllReleases(r.Context())
	if err != nil {
		writeInternalError(w, model.NewTrackingFetchFailedError(), err)
		return
	}

	records, err := h.reader.ListReleases(r.Context())
	if err != nil {
		writeInternalError(w, model.NewTrackingFetchFailedError(), err)
		return
	}

	if trackings == nil {
		trackings = []model.TrackingCount{}
	}
	writeJSON(w, http.StatusOK, allTrackingsResponse{
		Trackings:     trackings,
		TotalReleases: len(records),
	})
}

// GetByRelease は指定リリースの計数行をそのまま返す。
// GET /tracking/{releaseID}
func (h *TrackingHandler) GetByRelease(w http.ResponseWriter, r *http.Request) {
	releaseID := chi.URLParam(r, "releaseID")
	if releaseID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("releaseID"))
		return
	}

	trackings, err := h.reader.GetReleaseTrackingMetrics(r.Context(), releaseID)
	if err != nil {
		writeInternalError(w, model.NewTrackingFetchFailedError(), err)
		return
	}

	if trackings == nil {
		trackings = []model.TrackingCount{}
	}
	writeJSON(w, http.StatusOK, trackings)
}
