package encoding

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vaultkeeper/vaultkeeper/internal/vaulterr"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	want := []byte{0x00, 0x01, 0xFF, 0x7A, 0x10}

	encoded := Encode(want)
	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Decode(Encode(b)) = %x, want %x", got, want)
	}
}

func TestDecode_MalformedFailsAsCorrupt(t *testing.T) {
	_, err := Decode("not valid base64!!!")
	if err == nil {
		t.Fatalf("expected error for malformed base64")
	}
	if !errors.Is(err, vaulterr.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestDecodeFixed_WrongLengthFailsAsCorrupt(t *testing.T) {
	encoded := Encode([]byte{1, 2, 3})

	_, err := DecodeFixed(encoded, 12)
	if err == nil {
		t.Fatalf("expected error for wrong length")
	}
	if !errors.Is(err, vaulterr.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestDecodeFixed_CorrectLengthSucceeds(t *testing.T) {
	want := bytes.Repeat([]byte{0x42}, 12)
	encoded := Encode(want)

	got, err := DecodeFixed(encoded, 12)
	if err != nil {
		t.Fatalf("DecodeFixed error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("DecodeFixed = %x, want %x", got, want)
	}
}
