package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hitoshi/releaseman/internal/model"
	"github.com/hitoshi/releaseman/internal/release"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler はサーバーレンダリングのページ配信を担う。
// ログインページと、ランタイムバージョンごとにまとめた
// リリース一覧のダッシュボードを提供する。
type PageHandler struct {
	service   ReleaseServiceInterface
	templates *template.Template
}

// NewPageHandler はPageHandlerを生成する。
// テンプレートはバイナリに埋め込まれており、起動時に一度だけパースする。
func NewPageHandler(service ReleaseServiceInterface) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		service:   service,
		templates: tmpl,
	}, nil
}

// LoginPage はログインページを配信する。
// GET /
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "login.html", nil); err != nil {
		slog.Error("failed to render login page", slog.String("error", err.Error()))
	}
}

// dashboardData はダッシュボードテンプレートへの入力。
type dashboardData struct {
	Groups []model.VersionGroup
}

// Dashboard はバージョンごとにまとめたリリース一覧を配信する。
// 認証はページ用ミドルウェア（未認証は303でログインページへ）が担う。
// GET /dashboard
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	releases, err := h.service.ListReleases(r.Context())
	if err != nil {
		slog.Error("failed to load releases for dashboard", slog.String("error", err.Error()))
		http.Error(w, "リリース一覧の取得に失敗しました。", http.StatusInternalServerError)
		return
	}

	data := dashboardData{
		Groups: release.GroupByRuntimeVersion(release.SortByTimestampDesc(releases)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.Error("failed to render dashboard", slog.String("error", err.Error()))
	}
}
