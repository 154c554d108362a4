package share

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRGenerator renders share links as QR codes for mobile import.
type QRGenerator struct {
	// Size determines the pixel dimensions of the generated QR code
	Size int
	// RecoveryLevel determines the error correction level for the QR code
	RecoveryLevel qrcode.RecoveryLevel
}

// NewQRGenerator creates a generator with defaults suitable for phone
// camera scanning.
func NewQRGenerator() *QRGenerator {
	return &QRGenerator{
		Size:          256,
		RecoveryLevel: qrcode.Medium,
	}
}

// PNG renders the content as PNG image data.
func (g *QRGenerator) PNG(content string) ([]byte, error) {
	data, err := qrcode.Encode(content, g.RecoveryLevel, g.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}
	return data, nil
}

// Base64 renders the content as a data: URI suitable for embedding in
// JSON responses or HTML pages.
func (g *QRGenerator) Base64(content string) (string, error) {
	data, err := g.PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
