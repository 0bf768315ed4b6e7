// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/releaseman/internal/auth"
	"github.com/hitoshi/releaseman/internal/metrics"
	"github.com/hitoshi/releaseman/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// VerifyPassword は提示されたパスワードを管理者パスワードと照合する。
	VerifyPassword(password string) error
	// IssueToken は現在時刻で署名済みセッショントークンを発行する。
	IssueToken() (string, error)
	// SessionCookie はトークンを運ぶセッションCookieを構築する。
	SessionCookie(token string) *http.Cookie
	// ClearSessionCookie はセッションCookieを無効化するCookieを構築する。
	ClearSessionCookie() *http.Cookie
}

// AuthHandler はログイン・ログアウトのHTTPハンドラー。
// セッションはステートレスであり、ログアウトはCookieの上書きのみを行う。
type AuthHandler struct {
	service   AuthServiceInterface
	collector metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service:   service,
		collector: collector,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Password string `json:"password"`
}

// Login はパスワードを検証し、セッションCookieを発行する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	if err := h.service.VerifyPassword(req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordNotConfigured) {
			// サーバー設定の不備。クライアント起因の401とは区別する。
			slog.Error("admin password is not configured")
			writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewPasswordNotConfiguredError())
			return
		}
		if h.collector != nil {
			h.collector.RecordLoginFailure()
		}
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidPasswordError())
		return
	}

	token, err := h.service.IssueToken()
	if err != nil {
		slog.Error("failed to issue session token", slog.String("error", err.Error()))
		writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewPasswordNotConfiguredError())
		return
	}

	http.SetCookie(w, h.service.SessionCookie(token))
	if h.collector != nil {
		h.collector.RecordLoginSuccess()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout はセッションCookieを空値・即時失効で上書きする。
// サーバー側に破棄すべき状態は存在しない。
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.service.ClearSessionCookie())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
