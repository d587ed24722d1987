package token

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestNewCodecRequiresSecret(t *testing.T) {
	if _, err := NewCodec(""); err != ErrMissingSecret {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := NewCodec("s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")

	payloads := []string{
		"42",
		`{"v":1,"sub":"abc","sid":"def"}`,
		"principal-with-unicode-ñ",
	}

	for _, p := range payloads {
		tok := codec.Sign(p)
		got, ok := codec.Verify(tok)
		if !ok {
			t.Fatalf("Verify(%q) failed", p)
		}
		if got != p {
			t.Fatalf("round trip mismatch: got %q want %q", got, p)
		}
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")
	tok := codec.Sign(`{"v":1,"sub":"user-1"}`)

	parts := strings.SplitN(tok, ".", 2)
	sig, _ := base64.RawURLEncoding.DecodeString(parts[1])
	for i := range sig {
		flipped := make([]byte, len(sig))
		copy(flipped, sig)
		flipped[i] ^= 0x01
		bad := parts[0] + "." + base64.RawURLEncoding.EncodeToString(flipped)
		if _, ok := codec.Verify(bad); ok {
			t.Fatalf("tampered signature at byte %d accepted", i)
		}
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")
	tok := codec.Sign("user-1")

	parts := strings.SplitN(tok, ".", 2)
	other := base64.RawURLEncoding.EncodeToString([]byte("user-2"))
	if _, ok := codec.Verify(other + "." + parts[1]); ok {
		t.Fatal("payload swap accepted")
	}
}

func TestVerifyLegacyUnsignedToken(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")

	legacy := base64.RawURLEncoding.EncodeToString([]byte("user-7"))
	got, ok := codec.Verify(legacy)
	if !ok || got != "user-7" {
		t.Fatalf("legacy token not accepted: %q %v", got, ok)
	}

	// Single segment that is not valid base64url must fail closed.
	if _, ok := codec.Verify("!!not-base64!!"); ok {
		t.Fatal("garbage single-segment token accepted")
	}
}

func TestVerifyRejectsMalformedTokens(t *testing.T) {
	codec, _ := NewCodec("unit-test-secret")

	cases := []string{
		"",
		"a.b.c",          // three segments (e.g. a stray JWT)
		"a.",             // empty signature segment decodes to nothing
		codec.Sign("x") + ".extra",
	}
	for _, tok := range cases {
		if _, ok := codec.Verify(tok); ok {
			t.Fatalf("malformed token %q accepted", tok)
		}
	}
}

func TestVerifyDifferentSecrets(t *testing.T) {
	a, _ := NewCodec("secret-a")
	b, _ := NewCodec("secret-b")

	tok := a.Sign("user-1")
	if _, ok := b.Verify(tok); ok {
		t.Fatal("token verified under a different secret")
	}
}

func TestDecodeClaims(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Claims
		ok      bool
	}{
		{"versioned", `{"v":1,"sub":"u1","sid":"d1"}`, Claims{Version: 1, PrincipalID: "u1", DeviceSessionID: "d1"}, true},
		{"versioned without device", `{"v":1,"sub":"u1"}`, Claims{Version: 1, PrincipalID: "u1"}, true},
		{"historical json", `{"principalId":"u2","deviceSessionId":"d2"}`, Claims{PrincipalID: "u2", DeviceSessionID: "d2"}, true},
		{"bare id", "u3", Claims{PrincipalID: "u3"}, true},
		{"empty", "", Claims{}, false},
		{"json without id", `{"foo":"bar"}`, Claims{}, false},
		{"broken json", `{"sub":`, Claims{}, false},
	}

	for _, tt := range tests {
		got, ok := DecodeClaims(tt.payload)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s: DecodeClaims(%q) = %+v,%v want %+v,%v",
				tt.name, tt.payload, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEncodeDecodeClaims(t *testing.T) {
	payload, err := EncodeClaims("u1", "d1")
	if err != nil {
		t.Fatalf("EncodeClaims: %v", err)
	}
	got, ok := DecodeClaims(payload)
	if !ok {
		t.Fatal("DecodeClaims failed on encoded payload")
	}
	if got.PrincipalID != "u1" || got.DeviceSessionID != "d1" || got.Version != 1 {
		t.Fatalf("unexpected claims: %+v", got)
	}
}
