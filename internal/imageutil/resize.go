package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// DefaultMaxDimension is the default maximum dimension for resizing
const DefaultMaxDimension = 1024

// ResizeConfig holds configuration for image resizing
type ResizeConfig struct {
	MaxDimension int // Maximum width or height (default 1024)
	Quality      int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default resize configuration
func DefaultConfig() *ResizeConfig {
	return &ResizeConfig{
		MaxDimension: DefaultMaxDimension,
		Quality:      85,
	}
}

// ResizeImage downscales an image that exceeds the max dimension while
// maintaining aspect ratio, re-encoding in the source format. It returns the
// image bytes and the format they are encoded in; images already within
// bounds come back unchanged.
func ResizeImage(imageData []byte, config *ResizeConfig) ([]byte, string, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Decode the image
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Check if resizing is needed
	if width <= config.MaxDimension && height <= config.MaxDimension {
		return imageData, format, nil
	}

	// Calculate new dimensions maintaining aspect ratio
	var newWidth, newHeight int
	if width > height {
		newWidth = config.MaxDimension
		newHeight = int(float64(height) * float64(config.MaxDimension) / float64(width))
	} else {
		newHeight = config.MaxDimension
		newWidth = int(float64(width) * float64(config.MaxDimension) / float64(height))
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))

	// High-quality resampling (CatmullRom is similar to Lanczos)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	// Re-encode in the source format
	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		format = "jpeg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: config.Quality})
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), format, nil
}
