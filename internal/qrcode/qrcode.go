// Package qrcode builds the per-category check-in link and renders it as a PNG.
package qrcode

import (
	"fmt"
	"net/url"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

const DefaultSize = 512

// CheckInURL is the public page a participant lands on after scanning.
func CheckInURL(baseURL, categoryID string) string {
	return strings.TrimRight(baseURL, "/") + "/check-in/" + url.PathEscape(categoryID)
}

// PNG renders content at size x size pixels with medium error correction.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// FileName is the download name offered for a category's QR image.
func FileName(categoryName string) string {
	name := strings.ToLower(strings.TrimSpace(categoryName))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = "category"
	}
	return "qr-" + name + ".png"
}
