package auth

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"
)

func fixedClock(unixSeconds int64) func() time.Time {
	return func() time.Time {
		return time.Unix(unixSeconds, 0)
	}
}

func TestSign_Deterministic(t *testing.T) {
	a := Sign("1700000000", "secret")
	b := Sign("1700000000", "secret")
	if a != b {
		t.Errorf("signatures differ: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("signature length = %d, want 64 hex chars (SHA-256)", len(a))
	}
}

func TestSign_DifferentSecretsYieldDifferentSignatures(t *testing.T) {
	a := Sign("1700000000", "secret-a")
	b := Sign("1700000000", "secret-b")
	if a == b {
		t.Error("signatures with different secrets should differ")
	}
}

func TestEncodeToken_DecodeToken_RoundTrip(t *testing.T) {
	token := EncodeToken(1700000000, "secret")

	claims := DecodeToken(token)
	if claims == nil {
		t.Fatal("DecodeToken returned nil for a freshly encoded token")
	}
	if claims.IssuedAt != 1700000000 {
		t.Errorf("IssuedAt = %d, want %d", claims.IssuedAt, 1700000000)
	}
	if claims.Signature != Sign("1700000000", "secret") {
		t.Errorf("Signature = %q, want recomputed signature", claims.Signature)
	}
}

func TestDecodeToken_AcceptsPaddedBase64(t *testing.T) {
	raw := "1700000000." + Sign("1700000000", "secret")
	padded := base64.URLEncoding.EncodeToString([]byte(raw))

	if DecodeToken(padded) == nil {
		t.Error("DecodeToken should accept padded base64url input")
	}
}

func TestDecodeToken_Malformed_ReturnsNil(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64url", "!!!not-base64!!!"},
		{"no separator", base64.RawURLEncoding.EncodeToString([]byte("1700000000"))},
		{"empty issued-at", base64.RawURLEncoding.EncodeToString([]byte(".abcdef"))},
		{"empty signature", base64.RawURLEncoding.EncodeToString([]byte("1700000000."))},
		{"issued-at not integer", base64.RawURLEncoding.EncodeToString([]byte("17e9.abcdef"))},
		{"issued-at zero", base64.RawURLEncoding.EncodeToString([]byte("0.abcdef"))},
		{"issued-at negative", base64.RawURLEncoding.EncodeToString([]byte("-5.abcdef"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if claims := DecodeToken(tt.token); claims != nil {
				t.Errorf("DecodeToken(%q) = %+v, want nil", tt.token, claims)
			}
		})
	}
}

func TestValidator_FreshToken_IsValid(t *testing.T) {
	const issuedAt = int64(1700000000)
	token := EncodeToken(issuedAt, "secret")

	v := NewValidator("secret", 3600, fixedClock(issuedAt))
	if !v.Validate(token) {
		t.Error("freshly issued token should be valid")
	}
}

func TestValidator_EmptySecret_IsInvalid(t *testing.T) {
	token := EncodeToken(1700000000, "secret")

	v := NewValidator("", 3600, fixedClock(1700000000))
	if v.Validate(token) {
		t.Error("token should be invalid when no secret is resolvable")
	}
}

func TestValidator_WrongSecret_IsInvalid(t *testing.T) {
	token := EncodeToken(1700000000, "secret-a")

	v := NewValidator("secret-b", 3600, fixedClock(1700000000))
	if v.Validate(token) {
		t.Error("token signed with a different secret should be invalid")
	}
}

func TestValidator_TamperedSignature_IsInvalid(t *testing.T) {
	const issuedAt = int64(1700000000)
	payload := strconv.FormatInt(issuedAt, 10)
	signature := Sign(payload, "secret")

	// 署名の末尾1文字を別の16進文字に置き換える（1ビット相当の改ざん）
	last := signature[len(signature)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	tampered := signature[:len(signature)-1] + string(flipped)
	token := base64.RawURLEncoding.EncodeToString([]byte(payload + "." + tampered))

	v := NewValidator("secret", 3600, fixedClock(issuedAt))
	if v.Validate(token) {
		t.Error("token with tampered signature should be invalid")
	}
}

func TestValidator_TruncatedSignature_IsInvalid(t *testing.T) {
	const issuedAt = int64(1700000000)
	payload := strconv.FormatInt(issuedAt, 10)
	signature := Sign(payload, "secret")

	token := base64.RawURLEncoding.EncodeToString([]byte(payload + "." + signature[:32]))

	v := NewValidator("secret", 3600, fixedClock(issuedAt))
	if v.Validate(token) {
		t.Error("token with truncated signature should be invalid")
	}
}

func TestValidator_ExpiryBoundary(t *testing.T) {
	const issuedAt = int64(1700000000)
	const maxAge = 3600
	token := EncodeToken(issuedAt, "secret")

	// issuedAt+maxAge ちょうどの瞬間はまだ有効
	v := NewValidator("secret", maxAge, fixedClock(issuedAt+maxAge))
	if !v.Validate(token) {
		t.Error("token should still be valid at exactly issuedAt+maxAge")
	}

	// 1秒でも過ぎたら失効
	v = NewValidator("secret", maxAge, fixedClock(issuedAt+maxAge+1))
	if v.Validate(token) {
		t.Error("token should be invalid after issuedAt+maxAge")
	}
}
