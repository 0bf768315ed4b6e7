package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"
)

// ログイン処理が返すエラー。ハンドラー層でHTTPステータスに変換される。
var (
	// ErrPasswordNotConfigured は管理者パスワードが未設定であることを示す。
	// サーバー設定の不備であり、500として扱う。
	ErrPasswordNotConfigured = errors.New("admin password is not configured")
	// ErrInvalidPassword はパスワード不一致を示す。401として扱う。
	ErrInvalidPassword = errors.New("invalid password")
	// ErrSecretNotConfigured はセッション秘密鍵が解決できないことを示す。
	ErrSecretNotConfigured = errors.New("session secret is not configured")
)

// ServiceConfig は認証サービスの設定。
// 秘密鍵のフォールバック（専用秘密鍵→管理者パスワード）は
// config.Loadで解決済みの値を渡すこと。
type ServiceConfig struct {
	AdminPassword string
	SessionSecret string
	SessionMaxAge int // 秒
	CookieSecure  bool
}

// Service は単一管理者のログイン・セッション発行・検証を担う。
type Service struct {
	cfg       ServiceConfig
	validator *Validator
	now       func() time.Time
}

// NewService はServiceを生成する。nowがnilの場合はtime.Nowを使う。
func NewService(cfg ServiceConfig, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		cfg:       cfg,
		validator: NewValidator(cfg.SessionSecret, cfg.SessionMaxAge, now),
		now:       now,
	}
}

// VerifyPassword は管理者パスワードを照合する。
// パスワード未設定の場合はErrPasswordNotConfigured、
// 不一致の場合はErrInvalidPasswordを返す。比較は定数時間で行う。
func (s *Service) VerifyPassword(password string) error {
	if s.cfg.AdminPassword == "" {
		return ErrPasswordNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// IssueToken は現在時刻を発行時刻とするセッショントークンを発行する。
func (s *Service) IssueToken() (string, error) {
	if s.cfg.SessionSecret == "" {
		return "", ErrSecretNotConfigured
	}
	return EncodeToken(s.now().Unix(), s.cfg.SessionSecret), nil
}

// ValidateToken はトークンの有効性を判定する。
func (s *Service) ValidateToken(token string) bool {
	return s.validator.Validate(token)
}

// SessionCookie は発行済みトークンを格納するセッションCookieを返す。
func (s *Service) SessionCookie(token string) *http.Cookie {
	return BuildSessionCookie(token, CookieConfig{
		Secure: s.cfg.CookieSecure,
		MaxAge: s.cfg.SessionMaxAge,
	})
}

// ClearSessionCookie はセッションCookieを破棄するCookieを返す。
func (s *Service) ClearSessionCookie() *http.Cookie {
	return BuildClearSessionCookie(CookieConfig{
		Secure: s.cfg.CookieSecure,
		MaxAge: s.cfg.SessionMaxAge,
	})
}
