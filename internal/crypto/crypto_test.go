package crypto

import (
	"bytes"
	"errors"
	"testing"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestEncryptDecrypt(t *testing.T) {
	enc, err := NewEncryptorFromSecret(testSecret)
	if err != nil {
		t.Fatal(err)
	}

	inputs := []string{"", "Jane Doe", "Résumé with ünïcode\nand lines"}
	for _, input := range inputs {
		ct, err := enc.Encrypt(input)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", input, err)
		}
		if input != "" && ct == input {
			t.Errorf("Encrypt(%q) returned plaintext", input)
		}

		pt, err := enc.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if pt != input {
			t.Errorf("round trip = %q, want %q", pt, input)
		}
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	enc, _ := NewEncryptorFromSecret(testSecret)

	a, _ := enc.Encrypt("same")
	b, _ := enc.Encrypt("same")
	if a == b {
		t.Error("two encryptions of the same text should differ")
	}
}

func TestDecryptFailures(t *testing.T) {
	enc, _ := NewEncryptorFromSecret(testSecret)
	other, _ := NewEncryptorFromSecret(testSecret + "-other")

	ct, _ := enc.Encrypt("secret text")
	if _, err := other.Decrypt(ct); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("wrong key error = %v, want ErrDecryptionFailed", err)
	}
	if _, err := enc.Decrypt("AAAA"); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("short ciphertext error = %v, want ErrCiphertextTooShort", err)
	}
	if _, err := enc.Decrypt("not base64!"); err == nil {
		t.Error("invalid base64 should fail")
	}
}

func TestDeriveKey(t *testing.T) {
	if _, err := DeriveKey("short", ViewStateInfo); !errors.Is(err, ErrSecretTooShort) {
		t.Errorf("short secret error = %v", err)
	}

	stateKey, _ := DeriveKey(testSecret, ViewStateInfo)
	cookieKey, _ := DeriveKey(testSecret, ViewCookieInfo)
	again, _ := DeriveKey(testSecret, ViewStateInfo)

	if len(stateKey) != 32 {
		t.Errorf("key length = %d, want 32", len(stateKey))
	}
	if bytes.Equal(stateKey, cookieKey) {
		t.Error("keys for different purposes should differ")
	}
	if !bytes.Equal(stateKey, again) {
		t.Error("derivation should be deterministic")
	}
}

func TestNewEncryptorKeyLength(t *testing.T) {
	if _, err := NewEncryptor(make([]byte, 16)); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("16 byte key error = %v, want ErrInvalidKey", err)
	}
}

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret()
	if err != nil {
		t.Fatal(err)
	}
	if len(secret) < 32 {
		t.Errorf("generated secret too short for config: %d chars", len(secret))
	}
	if _, err := NewEncryptorFromSecret(secret); err != nil {
		t.Errorf("generated secret rejected: %v", err)
	}
}
