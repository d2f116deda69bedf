package people

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareImage_DownscalesLargePNG(t *testing.T) {
	out, ct, ext, err := prepareImage(pngBytes(t, 2048, 1024))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", ext)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, maxImageDimension, img.Bounds().Dx())
	assert.Equal(t, maxImageDimension/2, img.Bounds().Dy())
}

func TestPrepareImage_KeepsSmallImage(t *testing.T) {
	in := pngBytes(t, 64, 64)
	out, _, _, err := prepareImage(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPrepareImage_StoresWebpAsIs(t *testing.T) {
	// RIFF zarfı + VP8 chunk başlığı yeterli
	in := []byte("RIFF\x1a\x00\x00\x00WEBPVP8 \x0e\x00\x00\x00")
	out, ct, ext, err := prepareImage(in)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", ct)
	assert.Equal(t, ".webp", ext)
	assert.Equal(t, in, out)
}

func TestPrepareImage_RejectsOtherTypes(t *testing.T) {
	_, _, _, err := prepareImage([]byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, errUnsupportedImage)
}

func TestQRURL(t *testing.T) {
	assert.Equal(t, "https://badge.example.com/qr/AB12", QRURL("https://badge.example.com/", " ab12 "))
}

func TestOnboardRequestNormalize(t *testing.T) {
	role := "  "
	company := " ACME "
	r := OnboardRequest{Code: " ab12 ", PersonRequest: PersonRequest{Name: "  Rossi ", Role: &role, Company: &company}}
	r.normalize()

	assert.Equal(t, "ab12", r.Code)
	assert.Equal(t, "Rossi", r.Name)
	assert.Nil(t, r.Role)
	assert.Equal(t, "ACME", *r.Company)
}
