package docmodel

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxLogoSide bounds the logo's width and height in pixels.
const MaxLogoSide = 4096

// ErrLogoTooLarge is returned for logos wider or taller than MaxLogoSide.
var ErrLogoTooLarge = errors.New("decode logo: image too large")

// NewLogo decodes image bytes and records their format and pixel size. The
// header is checked against MaxLogoSide before the pixels are decoded.
func NewLogo(data []byte) (*Logo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("decode logo: empty image")
	}
	if cfg.Width > MaxLogoSide || cfg.Height > MaxLogoSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrLogoTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	return &Logo{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height, Image: img}, nil
}

// MIME returns the media type for the logo's format.
func (l *Logo) MIME() string {
	switch l.Format {
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	default:
		return "image/png"
	}
}
