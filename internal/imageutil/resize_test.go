package imageutil

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil))
	return buf.Bytes()
}

func TestResizeImagePassesThroughSmallImages(t *testing.T) {
	original := encodePNG(t, 640, 480)

	resized, format, err := ResizeImage(original, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, original, resized)
	assert.Equal(t, "png", format)
}

func TestResizeImageDownscalesPreservingAspectRatio(t *testing.T) {
	original := encodePNG(t, 2048, 1024)

	resized, format, err := ResizeImage(original, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	img, _, err := image.Decode(bytes.NewReader(resized))
	require.NoError(t, err)
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}

func TestResizeImageKeepsJPEGFormat(t *testing.T) {
	original := encodeJPEG(t, 1200, 3000)

	resized, format, err := ResizeImage(original, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	img, decodedFormat, err := image.Decode(bytes.NewReader(resized))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", decodedFormat)
	assert.Equal(t, 1024, img.Bounds().Dy())
}

func TestResizeImageRejectsGarbage(t *testing.T) {
	_, _, err := ResizeImage([]byte("not an image"), nil)
	assert.Error(t, err)
}
