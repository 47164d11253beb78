package images

import (
	"image"
	"image/color"
	"testing"
)

func TestIsGrayscale(t *testing.T) {
	gray := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	colored := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	transparent := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			gray.Set(x, y, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
			colored.Set(x, y, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
		}
	}
	colored.Set(1, 1, color.NRGBA{R: 200, A: 255})

	if !IsGrayscale(gray) {
		t.Error("expected gray image to be grayscale")
	}
	if IsGrayscale(colored) {
		t.Error("expected colored image not to be grayscale")
	}
	if IsGrayscale(transparent) {
		t.Error("expected transparent image not to be grayscale")
	}
	if g := ToGray(gray); g.GrayAt(1, 1).Y != 50 {
		t.Errorf("ToGray() pixel = %d, want 50", g.GrayAt(1, 1).Y)
	}
}
