package storage

import (
	"testing"

	"github.com/go-pdfkit/pdfcore/cipher"
	"github.com/go-pdfkit/pdfcore/objects"
)

func TestSetupEncryptionRejectsNonStandardFilter(t *testing.T) {
	trailer := objects.Dict{}
	enc := objects.Dict{"Filter": objects.Name("Custom")}
	if _, err := setupEncryption(trailer, enc, ""); err == nil {
		t.Fatal("expected an error for a non-Standard security handler")
	}
}

func TestSetupEncryptionLegacyRC4(t *testing.T) {
	trailer := objects.Dict{
		"ID": objects.Array{objects.String("0123456789ABCDEF")},
	}
	enc := objects.Dict{
		"Filter": objects.Name("Standard"),
		"V":      objects.Integer(2),
		"R":      objects.Integer(3),
		"Length": objects.Integer(128),
		"O":      objects.String(make([]byte, 32)),
		"U":      objects.String(make([]byte, 32)),
		"P":      objects.Integer(-44),
	}
	handler, err := setupEncryption(trailer, enc, "")
	if err != nil {
		t.Fatal(err)
	}
	if handler.Algorithm != cipher.RC4 {
		t.Errorf("expected RC4, got %v", handler.Algorithm)
	}
	if len(handler.DocKey) != 16 {
		t.Errorf("expected a 16-byte key for Length=128, got %d", len(handler.DocKey))
	}
}

func TestSetupEncryptionV4AESV2(t *testing.T) {
	trailer := objects.Dict{"ID": objects.Array{objects.String("0123456789ABCDEF")}}
	enc := objects.Dict{
		"Filter": objects.Name("Standard"),
		"V":      objects.Integer(4),
		"R":      objects.Integer(4),
		"Length": objects.Integer(128),
		"O":      objects.String(make([]byte, 32)),
		"U":      objects.String(make([]byte, 32)),
		"P":      objects.Integer(-4),
		"StmF":   objects.Name("StdCF"),
		"CF": objects.Dict{
			"StdCF": objects.Dict{"CFM": objects.Name("AESV2")},
		},
	}
	handler, err := setupEncryption(trailer, enc, "")
	if err != nil {
		t.Fatal(err)
	}
	if handler.Algorithm != cipher.AES128 {
		t.Errorf("expected AES128, got %v", handler.Algorithm)
	}
}

func TestSetupEncryptionAES256KeyLength(t *testing.T) {
	u := make([]byte, 48)
	ue := make([]byte, 32)
	trailer := objects.Dict{}
	enc := objects.Dict{
		"Filter": objects.Name("Standard"),
		"V":      objects.Integer(5),
		"R":      objects.Integer(6),
		"O":      objects.String(make([]byte, 48)),
		"U":      objects.String(u),
		"OE":     objects.String(ue),
		"UE":     objects.String(ue),
	}
	handler, err := setupEncryption(trailer, enc, "")
	if err != nil {
		t.Fatal(err)
	}
	if handler.Algorithm != cipher.AES256 {
		t.Errorf("expected AES256, got %v", handler.Algorithm)
	}
	if len(handler.DocKey) != 32 {
		t.Errorf("expected a 32-byte file key, got %d", len(handler.DocKey))
	}
}

func TestHardenedHashIsDeterministic(t *testing.T) {
	a := hardenedHash([]byte("secret"), []byte("12345678"), nil)
	b := hardenedHash([]byte("secret"), []byte("12345678"), nil)
	if string(a) != string(b) {
		t.Fatal("hardenedHash must be deterministic for the same inputs")
	}
	c := hardenedHash([]byte("other"), []byte("12345678"), nil)
	if string(a) == string(c) {
		t.Fatal("different passwords must hash differently")
	}
}
