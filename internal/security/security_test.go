package security

import (
	"encoding/base64"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMaskSecret_PreservesLengthPrefixSuffix(t *testing.T) {
	in := "sk-abcdefghijklmnop" // 19 runes
	got := MaskSecret(in)

	if utf8.RuneCountInString(got) != utf8.RuneCountInString(in) {
		t.Fatalf("masked length %d; want %d", utf8.RuneCountInString(got), utf8.RuneCountInString(in))
	}
	if !strings.HasPrefix(got, "sk-a") {
		t.Fatalf("prefix not preserved: %q", got)
	}
	if !strings.HasSuffix(got, "mnop") {
		t.Fatalf("suffix not preserved: %q", got)
	}
	middle := got[4 : len(got)-4]
	if middle != strings.Repeat("*", len(in)-8) {
		t.Fatalf("middle not fully masked: %q", middle)
	}
}

func TestMaskSecret_Boundaries(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"a":         "*",
		"abcdefg":   "*******",  // 7 runes: too short to expose ends
		"abcdefgh":  "abcdefgh", // exactly 8: prefix+suffix, empty middle
		"abcdefghi": "abcd*fghi",
	}
	for in, want := range cases {
		if got := MaskSecret(in); got != want {
			t.Errorf("MaskSecret(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestMaskSecret_MultiByteRunes(t *testing.T) {
	in := "ключ-секрет" // 11 runes, multi-byte
	got := MaskSecret(in)
	if utf8.RuneCountInString(got) != 11 {
		t.Fatalf("masked rune length = %d; want 11", utf8.RuneCountInString(got))
	}
	if !strings.HasPrefix(got, "ключ") || !strings.HasSuffix(got, "крет") {
		t.Fatalf("rune prefix/suffix not preserved: %q", got)
	}
}

func TestEncryptor_RoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef") // 32 bytes
	e, err := NewEncryptor(key)
	if err != nil {
		t.Fatalf("NewEncryptor: %v", err)
	}

	sealed, err := e.Encrypt("sk-very-secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if sealed == "sk-very-secret" {
		t.Fatalf("ciphertext equals plaintext")
	}
	got, err := e.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != "sk-very-secret" {
		t.Fatalf("round trip = %q", got)
	}

	// Nonces make ciphertexts unique per call.
	sealed2, _ := e.Encrypt("sk-very-secret")
	if sealed == sealed2 {
		t.Fatalf("two encryptions produced identical ciphertexts")
	}
}

func TestNewEncryptor_RejectsBadKeys(t *testing.T) {
	if _, err := NewEncryptor([]byte("short")); err == nil {
		t.Fatalf("expected error for 5-byte key")
	}
	if _, err := NewEncryptorFromBase64("!!not-base64!!"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
	ok := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	if _, err := NewEncryptorFromBase64(ok); err != nil {
		t.Fatalf("valid base64 key rejected: %v", err)
	}
}

func TestDecrypt_Garbage(t *testing.T) {
	e, _ := NewEncryptor([]byte("0123456789abcdef"))
	if _, err := e.Decrypt("AAAA"); err == nil {
		t.Fatalf("expected error for truncated ciphertext")
	}
	if _, err := e.Decrypt("%%%"); err == nil {
		t.Fatalf("expected error for non-base64 ciphertext")
	}
}
