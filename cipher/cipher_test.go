package cipher

import (
	"bytes"
	"testing"
)

func TestPadPassword(t *testing.T) {
	got := PadPassword([]byte("short"))
	want := append([]byte("short"), padding[:32-len("short")]...)
	if !bytes.Equal(got[:], want) {
		t.Errorf("got %x want %x", got, want)
	}
}

func TestRC4RoundTrip(t *testing.T) {
	h := StandardHandler{DocKey: []byte("0123456789"), Algorithm: RC4, KeyLength: 5}
	want := []byte("a secret payload, repeated to exceed one RC4 block")
	enc, err := h.Encrypt(7, 0, want)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := h.Decrypt(7, 0, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, want) {
		t.Errorf("got %q want %q", dec, want)
	}
}

func TestAES128RoundTrip(t *testing.T) {
	h := StandardHandler{DocKey: []byte("0123456789abcdef"), Algorithm: AES128, KeyLength: 16}
	want := []byte("another secret payload that spans multiple AES blocks of data")
	enc, err := h.Encrypt(3, 0, want)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := h.Decrypt(3, 0, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, want) {
		t.Errorf("got %q want %q", dec, want)
	}
}

func TestAES256UsesDocKeyDirectly(t *testing.T) {
	docKey := bytes.Repeat([]byte{0x42}, 32)
	h := StandardHandler{DocKey: docKey, Algorithm: AES256, KeyLength: 32}
	if !bytes.Equal(h.ObjectKey(1, 0), docKey) {
		t.Error("AES256 must use the document key unextended, per 7.6.4.3")
	}
	want := []byte("payload encrypted under the raw file key")
	enc, err := h.Encrypt(99, 0, want)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := h.Decrypt(99, 0, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, want) {
		t.Errorf("got %q want %q", dec, want)
	}
}

func TestObjectKeyDerivationVariesByObject(t *testing.T) {
	h := StandardHandler{DocKey: []byte("0123456789"), Algorithm: RC4, KeyLength: 5}
	k1 := h.ObjectKey(1, 0)
	k2 := h.ObjectKey(2, 0)
	k3 := h.ObjectKey(1, 1)
	if bytes.Equal(k1, k2) {
		t.Error("keys for different object numbers must differ")
	}
	if bytes.Equal(k1, k3) {
		t.Error("keys for different generations must differ")
	}
	if len(k1) != 10 {
		t.Errorf("expected key length min(KeyLength+5, 16) = 10, got %d", len(k1))
	}
}

func TestAES128SaltChangesKey(t *testing.T) {
	h128 := StandardHandler{DocKey: []byte("0123456789abcdef"), Algorithm: AES128, KeyLength: 16}
	hRC4 := StandardHandler{DocKey: []byte("0123456789abcdef"), Algorithm: RC4, KeyLength: 16}
	if bytes.Equal(h128.ObjectKey(5, 0), hRC4.ObjectKey(5, 0)) {
		t.Error("AES128 sAlT salt must change the derived key versus RC4")
	}
}
