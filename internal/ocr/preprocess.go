package ocr

import (
	"bytes"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/heic"
)

// minOCRSide is the minimum long-side size in pixels; smaller scans are
// upscaled before recognition to improve accuracy.
const minOCRSide = 1800

// Preprocess prepares a scan for recognition: grayscale, contrast boost,
// upscale of small images, then sharpen.
func Preprocess(src image.Image) image.Image {
	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 25)

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	maxSide := width
	if height > maxSide {
		maxSide = height
	}
	if maxSide > 0 && maxSide < minOCRSide {
		scale := float64(minOCRSide) / float64(maxSide)
		img = imaging.Resize(img, int(float64(width)*scale), int(float64(height)*scale), imaging.Lanczos)
	}

	return imaging.Sharpen(img, 1.0)
}

// DecodeImage decodes uploaded image bytes, sniffing HEIC containers that
// the standard image package cannot handle.
func DecodeImage(data []byte) (image.Image, error) {
	if isHEIC(data) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding heic image: %w", err)
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// isHEIC checks for an ISO BMFF ftyp box with a HEIF brand.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "hevc", "hevx", "heim", "heis", "hevm", "hevs", "mif1", "msf1":
		return true
	}
	return false
}
