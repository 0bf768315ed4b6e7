// Package config は環境変数由来のアプリケーション設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultSessionMaxAge はセッション有効期間のデフォルト値（12時間、秒単位）。
const DefaultSessionMaxAge = 60 * 60 * 12

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Admin auth
	AdminPassword string
	// SessionSecret はセッショントークンの署名鍵。
	// ADMIN_SESSION_SECRET が未設定の場合は ADMIN_PASSWORD にフォールバックする。
	// フォールバック解決は起動時のここで1回だけ行い、検証ロジック内では再解決しない。
	SessionSecret string
	SessionMaxAge int // セッション有効期間（秒）

	// Storage
	StorageDriver    string // "s3" または "local"
	StorageLocalRoot string
	UpdatesPrefix    string // 成果物ルートプレフィックス

	// S3（ストレージコラボレーターのみが参照する）
	S3Region          string
	S3Bucket          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3SessionToken    string

	// Rate Limit（req/min単位）
	RateLimitGeneral int
	RateLimitLogin   int

	// Server
	ServerPort  string
	MetricsPort string
	BaseURL     string

	// Cookie
	CookieSecure bool

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
// ADMIN_PASSWORD は意図的に必須としない: 未設定の場合はログインが
// 500（サーバー設定不備）を返す仕様のため、起動自体は許容する。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Admin auth
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.SessionSecret = os.Getenv("ADMIN_SESSION_SECRET")
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.AdminPassword
	}
	cfg.SessionMaxAge = getEnvPositiveInt("ADMIN_SESSION_MAX_AGE_SECONDS", DefaultSessionMaxAge)

	// Storage
	cfg.StorageDriver = getEnvString("STORAGE_DRIVER", "s3")
	cfg.StorageLocalRoot = getEnvString("STORAGE_LOCAL_ROOT", "./data")
	cfg.UpdatesPrefix = getEnvString("UPDATES_PREFIX", "updates")
	cfg.S3Region = getEnvString("S3_REGION", "us-east-1")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	cfg.S3SessionToken = os.Getenv("S3_SESSION_TOKEN")

	// Optional fields with defaults
	cfg.RateLimitGeneral = getEnvPositiveInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitLogin = getEnvPositiveInt("RATE_LIMIT_LOGIN", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.MetricsPort = getEnvString("METRICS_PORT", "9090")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getEnvPositiveInt は正の整数として解釈できる場合のみ環境変数の値を採用する。
// 未設定・解析不能・0以下の場合はデフォルト値を返す。
func getEnvPositiveInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}
