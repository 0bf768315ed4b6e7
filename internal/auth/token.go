// Package auth は署名付きステートレスセッションの発行・検証を提供する。
//
// セッションはサーバー側に一切保存されない。トークンは発行時刻と
// そのHMAC署名のみで構成され、有効性は検証のたびに秘密鍵と時計から
// 再計算される。
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Sign はHMAC-SHA256でペイロードを署名し、16進文字列で返す。
// 同じpayloadとsecretの組に対して常に同じ署名を返す（決定的）。
func Sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// TokenClaims は構造的にデコードされたセッショントークンの内容。
type TokenClaims struct {
	IssuedAt  int64  // 発行時刻（Unix秒）
	Signature string // 発行時刻文字列に対するHMAC署名（16進）
}

// EncodeToken は発行時刻と署名を連結し、base64url（パディングなし）で
// エンコードしたトークン文字列を返す。
// 形式: base64url("<issuedAt>.<signature>")
func EncodeToken(issuedAtSeconds int64, secret string) string {
	payload := strconv.FormatInt(issuedAtSeconds, 10)
	signature := Sign(payload, secret)
	return base64.RawURLEncoding.EncodeToString([]byte(payload + "." + signature))
}

// DecodeToken はトークンを構造的に解析する。秘密鍵に依存した処理は
// 一切行わない（署名検証はValidatorの責務）。
// 次のいずれかの場合はnilを返す:
// base64urlとして復号できない、最初の "." で2つの非空要素に分割できない、
// 発行時刻が正の整数でない。
func DecodeToken(token string) *TokenClaims {
	// パディング付きで送られてきたトークンも受理する
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return nil
	}

	issuedAtRaw, signature, found := strings.Cut(string(raw), ".")
	if !found || issuedAtRaw == "" || signature == "" {
		return nil
	}

	issuedAt, err := strconv.ParseInt(issuedAtRaw, 10, 64)
	if err != nil || issuedAt <= 0 {
		return nil
	}

	return &TokenClaims{IssuedAt: issuedAt, Signature: signature}
}

// Validator はセッショントークンの有効性を判定する。
// 秘密鍵・有効期間・時計は構築時に注入し、検証中に環境へは触れない。
type Validator struct {
	secret string
	maxAge int64 // 秒
	now    func() time.Time
}

// NewValidator はValidatorを生成する。nowがnilの場合はtime.Nowを使う。
func NewValidator(secret string, maxAgeSeconds int, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{
		secret: secret,
		maxAge: int64(maxAgeSeconds),
		now:    now,
	}
}

// Validate はトークンが有効かどうかを返す。部分的な有効状態は存在せず、
// 最初に失敗したゲートで即座にfalseを返す。
//
// ゲート: 秘密鍵が解決済み → 構造的デコード成功 → 署名一致 → 期限内。
// 署名比較は長さ一致を確認したうえで定数時間比較を行う
// （長さ自体は秘匿情報として扱わない）。
// 期限は issuedAt+maxAge < now で失効とし、等しい瞬間はまだ有効。
func (v *Validator) Validate(token string) bool {
	if v.secret == "" {
		return false
	}

	claims := DecodeToken(token)
	if claims == nil {
		return false
	}

	payload := strconv.FormatInt(claims.IssuedAt, 10)
	expected := []byte(Sign(payload, v.secret))
	actual := []byte(claims.Signature)

	if len(actual) != len(expected) {
		return false
	}
	if subtle.ConstantTimeCompare(actual, expected) != 1 {
		return false
	}

	if claims.IssuedAt+v.maxAge < v.now().Unix() {
		return false
	}

	return true
}
