// Package signature evaluates uploaded signature images with pixel-statistic
// heuristics. It stands in for a trained classifier: an image with too few
// dark pixels or a near-uniform intensity distribution cannot be a genuine
// handwritten mark.
package signature

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Veda-rathna/mou-management-system/internal/model"
)

const (
	// darkThreshold splits the 0-255 intensity range; pixels below it
	// count as ink.
	darkThreshold = 128

	// minBlackRatio is the minimum ink coverage for a plausible signature.
	minBlackRatio = 0.01

	// minStdDev is the minimum intensity spread; anything flatter is a
	// blank or synthetic fill.
	minStdDev = 20.0
)

// Checker verifies signature images.
type Checker struct{}

// NewChecker creates a Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Check classifies the signature image at imagePath. Any load or decode
// failure yields the conservative "unsigned" status; Check never returns an
// error to the caller.
func (c *Checker) Check(imagePath string) model.SignatureVerification {
	v := model.SignatureVerification{
		ID:        uuid.New().String(),
		ImagePath: imagePath,
		Status:    model.SignatureUnsigned,
		CheckedAt: time.Now().UTC(),
	}

	f, err := os.Open(imagePath)
	if err != nil {
		zap.L().Warn("signature: open failed", zap.String("image", imagePath), zap.Error(err))
		return v
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		zap.L().Warn("signature: decode failed", zap.String("image", imagePath), zap.Error(err))
		return v
	}

	blackRatio, stdDev := intensityStats(img)
	v.BlackRatio = blackRatio
	v.StdDev = stdDev

	if blackRatio < minBlackRatio || stdDev < minStdDev {
		v.Status = model.SignatureSuspicious
	} else {
		v.Status = model.SignatureVerified
	}

	zap.L().Debug("signature: checked",
		zap.String("image", imagePath),
		zap.Float64("black_ratio", blackRatio),
		zap.Float64("std_dev", stdDev),
		zap.String("status", string(v.Status)),
	)
	return v
}

// intensityStats converts the image to single-channel intensity and returns
// the fraction of dark pixels and the standard deviation of intensities.
func intensityStats(img image.Image) (blackRatio, stdDev float64) {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0, 0
	}

	var dark int
	var sum, sumSq float64

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Luma conversion on 16-bit channels, scaled back to 0-255.
			gray := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
			if gray < darkThreshold {
				dark++
			}
			sum += gray
			sumSq += gray * gray
		}
	}

	n := float64(total)
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return float64(dark) / n, math.Sqrt(variance)
}
