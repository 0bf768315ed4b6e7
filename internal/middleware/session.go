// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"net/http"

	"github.com/hitoshi/releaseman/internal/auth"
	"github.com/hitoshi/releaseman/internal/model"
)

// TokenValidator はセッショントークンの検証に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type TokenValidator interface {
	ValidateToken(token string) bool
}

// NewSessionMiddleware はHTTP Only Cookieからセッショントークンを読み取り、
// 署名と有効期限を検証するミドルウェアを返す。
// トークンはステートレスであり、サーバー側の検索は発生しない。
// 未認証リクエストには統一フォーマットの401を返す。
func NewSessionMiddleware(validator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromCookieHeader(r.Header.Get("Cookie"))
			if token == "" || !validator.ValidateToken(token) {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewPageSessionMiddleware はページ配信向けの認証ミドルウェアを返す。
// JSONの401ではなくログインページへの303リダイレクトで応答する点が
// API向けと異なる。検証ロジック自体は同一。
func NewPageSessionMiddleware(validator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromCookieHeader(r.Header.Get("Cookie"))
			if token == "" || !validator.ValidateToken(token) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
