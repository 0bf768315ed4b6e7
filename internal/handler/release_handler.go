package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/releaseman/internal/model"
	"github.com/hitoshi/releaseman/internal/release"
)

// ReleaseServiceInterface はリリースハンドラーが必要とするサービスインターフェース。
type ReleaseServiceInterface interface {
	// ListReleases は突合済みのリリースビュー列を返す。
	ListReleases(ctx context.Context) ([]model.Release, error)
	// Rollback は成果物を再プロモーションし、新しいレコードを返す。
	Rollback(ctx context.Context, sourcePath, runtimeVersion string, commitHash, commitMessage *string) (*model.ReleaseRecord, error)
}

// ReleaseHandler はリリース閲覧とロールバックのHTTPハンドラー。
type ReleaseHandler struct {
	service ReleaseServiceInterface
}

// NewReleaseHandler はReleaseHandlerを生成する。
func NewReleaseHandler(service ReleaseServiceInterface) *ReleaseHandler {
	return &ReleaseHandler{service: service}
}

// listReleasesResponse はリリース一覧のAPIレスポンス。
type listReleasesResponse struct {
	Releases []model.Release `json:"releases"`
}

// rollbackRequest はロールバックリクエストのボディ。
type rollbackRequest struct {
	Path           string  `json:"path"`
	RuntimeVersion string  `json:"runtimeVersion"`
	CommitHash     *string `json:"commitHash"`
	CommitMessage  *string `json:"commitMessage"`
}

// rollbackResponse はロールバック成功時のAPIレスポンス。
type rollbackResponse struct {
	Success bool                 `json:"success"`
	Release *model.ReleaseRecord `json:"release"`
}

// ListReleases は最新順に並べたリリース一覧を返す。
// GET /releases
func (h *ReleaseHandler) ListReleases(w http.ResponseWriter, r *http.Request) {
	releases, err := h.service.ListReleases(r.Context())
	if err != nil {
		writeInternalError(w, model.NewReleaseFetchFailedError(), err)
		return
	}

	writeJSON(w, http.StatusOK, listReleasesResponse{
		Releases: release.SortByTimestampDesc(releases),
	})
}

// Rollback は指定成果物を最新リリースとして再プロモーションする。
// POST /rollback
func (h *ReleaseHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	var req rollbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	rec, err := h.service.Rollback(r.Context(), req.Path, req.RuntimeVersion, req.CommitHash, req.CommitMessage)
	if err != nil {
		if errors.Is(err, release.ErrMissingPath) {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("path"))
			return
		}
		if errors.Is(err, release.ErrMissingRuntimeVersion) {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("runtimeVersion"))
			return
		}
		writeInternalError(w, model.NewRollbackFailedError(), err)
		return
	}

	writeJSON(w, http.StatusOK, rollbackResponse{
		Success: true,
		Release: rec,
	})
}
