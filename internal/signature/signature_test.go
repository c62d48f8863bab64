package signature

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

func savePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sig.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestCheck_AllWhiteIsSuspicious(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 40))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	v := NewChecker().Check(savePNG(t, img))
	assert.Equal(t, model.SignatureSuspicious, v.Status)
	assert.Equal(t, 0.0, v.BlackRatio)
	assert.InDelta(t, 0.0, v.StdDev, 0.001)
}

func TestCheck_SparseInkIsSuspicious(t *testing.T) {
	// 100x100 with only 50 dark pixels: black_ratio 0.005 < 0.01, even
	// though the intensity spread is fine.
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for i := 0; i < 50; i++ {
		img.Pix[i] = 0
	}

	v := NewChecker().Check(savePNG(t, img))
	assert.Equal(t, model.SignatureSuspicious, v.Status)
	assert.Less(t, v.BlackRatio, 0.01)
}

func TestCheck_RealisticMarkIsVerified(t *testing.T) {
	// A thick dark stroke across a white field gives both enough ink
	// coverage and a wide intensity spread.
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y := 40; y < 60; y++ {
		for x := 10; x < 90; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	v := NewChecker().Check(savePNG(t, img))
	assert.Equal(t, model.SignatureVerified, v.Status)
	assert.GreaterOrEqual(t, v.BlackRatio, 0.01)
	assert.GreaterOrEqual(t, v.StdDev, 20.0)
}

func TestCheck_UnreadablePathIsUnsigned(t *testing.T) {
	v := NewChecker().Check("/nonexistent/sig.png")
	assert.Equal(t, model.SignatureUnsigned, v.Status)
}

func TestCheck_CorruptFileIsUnsigned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sig.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	v := NewChecker().Check(path)
	assert.Equal(t, model.SignatureUnsigned, v.Status)
}
