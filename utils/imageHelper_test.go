package utils

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestIsImagePayload(t *testing.T) {
	var buf bytes.Buffer
	img := imaging.New(10, 10, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !IsImagePayload(buf.Bytes()) {
		t.Fatal("png payload must be recognized as an image")
	}
	if IsImagePayload([]byte("%PDF-1.4 not an image")) {
		t.Fatal("pdf payload must not be recognized as an image")
	}
}

func TestShrinkReceiptImagePassThrough(t *testing.T) {
	small := []byte("%PDF-1.4 small document")
	if got := ShrinkReceiptImage(small); !bytes.Equal(got, small) {
		t.Fatal("payloads within bounds must pass through untouched")
	}

	// Oversized but undecodable: shrinking must never lose the bytes.
	big := make([]byte, maxReceiptSizeBytes+1)
	copy(big, "\x89PNG\r\n\x1a\n")
	if got := ShrinkReceiptImage(big); !bytes.Equal(got, big) {
		t.Fatal("decode failure must pass the original through")
	}
}
