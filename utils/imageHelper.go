package utils

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

const maxReceiptSizeBytes = 5 * 1024 * 1024

const receiptMaxWidth = 1280

// DetectImageContentType sniffs the payload's mime type.
func DetectImageContentType(data []byte) string {
	return http.DetectContentType(data)
}

// IsImagePayload reports whether the payload looks like an image the
// receipt pipeline knows how to downscale.
func IsImagePayload(data []byte) bool {
	return strings.HasPrefix(DetectImageContentType(data), "image/")
}

// ShrinkReceiptImage downscales oversized receipt photos before upload.
// Non-image payloads (PDFs) and images already within bounds pass through
// untouched. A decode failure also passes the original through: shrinking
// is an optimization, never a reason to lose the attachment.
func ShrinkReceiptImage(data []byte) []byte {
	if int64(len(data)) <= maxReceiptSizeBytes || !IsImagePayload(data) {
		return data
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	resized := imaging.Resize(img, receiptMaxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG); err != nil {
		return data
	}
	return buf.Bytes()
}
