package images

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func TestEnsureJFIFAPP0_AddsMarker(t *testing.T) {
	// Minimal JPEG without APP0
	data := []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x04}

	out, added, err := EnsureJFIFAPP0(data, DpiPxPerInch, 300, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added {
		t.Fatal("expected marker to be added")
	}
	if len(out) <= len(data) {
		t.Fatal("expected output to grow")
	}
	if out[0] != 0xFF || out[1] != 0xD8 {
		t.Fatal("expected SOI marker preserved")
	}
	if !bytes.Equal(out[2:4], []byte{0xFF, 0xE0}) {
		t.Fatal("expected JFIF APP0 marker at position 2-3")
	}
}

func TestEnsureJFIFAPP0_AlreadyPresent(t *testing.T) {
	// Minimal JPEG with APP0 already present
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

	out, added, err := EnsureJFIFAPP0(data, DpiPxPerInch, 300, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added {
		t.Fatal("expected no marker addition")
	}
	if !bytes.Equal(out, data) {
		t.Fatal("expected same bytes")
	}
}

func TestEncodeJPEG(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	out, err := EncodeJPEG(img, 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out[2:4], []byte{0xFF, 0xE0}) || !bytes.Equal(out[6:11], []byte("JFIF\x00")) {
		t.Fatalf("missing JFIF header: % x", out[:12])
	}
	if _, err := jpeg.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("result is not decodable: %v", err)
	}
}
