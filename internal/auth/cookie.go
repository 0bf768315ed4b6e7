package auth

import (
	"net/http"
	"net/url"
	"strings"
)

// CookieName はセッショントークンを運ぶCookieの名前。
const CookieName = "admin_session"

// CookieConfig はセッションCookieの属性設定。
type CookieConfig struct {
	Secure bool // 本番環境（https）の場合のみtrue
	MaxAge int  // セッション有効期間（秒）
}

// BuildSessionCookie はセッショントークンを格納するCookieを構築する。
// 属性: Path=/; HttpOnly; SameSite=Strict; Max-Age=<有効期間>、
// 本番環境ではSecureを付与する。
func BuildSessionCookie(token string, cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// BuildClearSessionCookie はセッションCookieを即時破棄させるCookieを構築する。
// 空の値とMax-Age=0を同じ属性セットで送出する。
// Go の http.Cookie は MaxAge < 0 を「Max-Age=0」として直列化する。
func BuildClearSessionCookie(cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ParseCookieHeader はCookieリクエストヘッダーを防御的に解析する。
//   - ";" で分割し、各セグメントの前後空白を除去する
//   - 最初の "=" のみで分割する（値自体が "=" を含みうるため）
//   - 値はパーセントデコードし、失敗した場合は生の値を採用する
//   - "=" を含まない、またはキーが空のセグメントは黙って捨てる
//   - キーが重複した場合は後勝ち
func ParseCookieHeader(header string) map[string]string {
	cookies := make(map[string]string)
	if header == "" {
		return cookies
	}

	for _, segment := range strings.Split(header, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		key, value, found := strings.Cut(segment, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}

		// PathUnescapeは "+" を空白に変換しない（Cookie値の "+" は文字通り扱う）
		if decoded, err := url.PathUnescape(value); err == nil {
			cookies[key] = decoded
		} else {
			cookies[key] = value
		}
	}

	return cookies
}

// TokenFromCookieHeader はCookieヘッダーからセッショントークンを取り出す。
// 存在しない場合は空文字列を返す。
func TokenFromCookieHeader(header string) string {
	return ParseCookieHeader(header)[CookieName]
}
