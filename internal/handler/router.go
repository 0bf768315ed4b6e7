package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/releaseman/internal/metrics"
	"github.com/hitoshi/releaseman/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBのPingContextを満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenValidator    middleware.TokenValidator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Collector         metrics.MetricsCollector

	// サービス
	AuthService    AuthServiceInterface
	ReleaseService ReleaseServiceInterface
	TrackingReader TrackingReaderInterface
	HealthChecker  HealthChecker
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → CORS → (認証ルートのみ Session → RateLimit)
//
// メソッド不一致はchiが405で応答する。
func NewRouter(deps *RouterDeps) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.Collector)
	releaseHandler := NewReleaseHandler(deps.ReleaseService)
	trackingHandler := NewTrackingHandler(deps.TrackingReader)
	pageHandler, err := NewPageHandler(deps.ReleaseService)
	if err != nil {
		return nil, err
	}

	// --- 認証不要のルート ---

	r.Get("/", pageHandler.LoginPage)
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// --- 認証が必要なAPIルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.TokenValidator))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/releases", releaseHandler.ListReleases)
		r.Post("/rollback", releaseHandler.Rollback)

		r.Route("/tracking", func(r chi.Router) {
			r.Get("/all", trackingHandler.GetAll)
			r.Get("/{releaseID}", trackingHandler.GetByRelease)
		})
	})

	// --- 認証が必要なページルート ---
	// 未認証はJSONの401ではなくログインページへリダイレクトする
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewPageSessionMiddleware(deps.TokenValidator))
		r.Get("/dashboard", pageHandler.Dashboard)
	})

	return r, nil
}
