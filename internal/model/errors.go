package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, config, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeInvalidPassword       = "INVALID_PASSWORD"
	ErrCodePasswordNotConfigured = "PASSWORD_NOT_CONFIGURED"
	ErrCodeMissingField          = "MISSING_FIELD"
	ErrCodeReleaseFetchFailed    = "RELEASE_FETCH_FAILED"
	ErrCodeRollbackFailed        = "ROLLBACK_FAILED"
	ErrCodeTrackingFetchFailed   = "TRACKING_FETCH_FAILED"
)

// NewUnauthorizedError は未認証エラーを生成する。
// セッショントークンの詳細な不正理由は意図的に含めない。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証されていません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewInvalidPasswordError はパスワード不一致エラーを生成する。
func NewInvalidPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPassword,
		Message:  "パスワードが正しくありません。",
		Category: "auth",
		Action:   "パスワードを確認して再度お試しください。",
	}
}

// NewPasswordNotConfiguredError は管理者パスワード未設定エラーを生成する。
// サーバー設定の不備であり、クライアント側で対処できない。
func NewPasswordNotConfiguredError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordNotConfigured,
		Message:  "管理者パスワードが設定されていません。",
		Category: "config",
		Action:   "サーバーのADMIN_PASSWORD設定を確認してください。",
	}
}

// NewMissingFieldError は必須フィールド欠落エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("必須フィールドが指定されていません: %s", field),
		Category: "validation",
		Action:   "リクエストボディを修正して再送してください。",
	}
}

// NewReleaseFetchFailedError はリリース一覧取得失敗エラーを生成する。
// 内部詳細はログのみに記録する。
func NewReleaseFetchFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeReleaseFetchFailed,
		Message:  "リリース一覧の取得に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewRollbackFailedError はロールバック失敗エラーを生成する。
func NewRollbackFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeRollbackFailed,
		Message:  "ロールバックに失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewTrackingFetchFailedError はトラッキング取得失敗エラーを生成する。
func NewTrackingFetchFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeTrackingFetchFailed,
		Message:  "ダウンロード計測データの取得に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
