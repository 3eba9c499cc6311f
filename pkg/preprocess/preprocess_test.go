package preprocess

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createTestImage creates a simple gradient test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			img.Set(x, y, color.RGBA{r, g, 128, 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	data := encodePNG(t, createTestImage(40, 30))

	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("decoded bounds = %v, want 40x30", img.Bounds())
	}
}

func TestDecodeGarbage(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		[]byte("not an image at all"),
		{0x00, 0x01, 0x02, 0x03},
	}

	for _, in := range inputs {
		if _, err := Decode(in); !errors.Is(err, ErrDecode) {
			t.Errorf("Decode(%d bytes) error = %v, want ErrDecode", len(in), err)
		}
	}
}

func TestNormalizeUpscalesToMinWidth(t *testing.T) {
	img := createTestImage(100, 50)

	out := Normalize(img, 400, DefaultContrast)

	if got := out.Bounds().Dx(); got != 400 {
		t.Errorf("normalized width = %d, want 400", got)
	}
	// Aspect ratio preserved: 100x50 -> 400x200.
	if got := out.Bounds().Dy(); got != 200 {
		t.Errorf("normalized height = %d, want 200", got)
	}
}

func TestNormalizeNeverDownscales(t *testing.T) {
	img := createTestImage(600, 300)

	out := Normalize(img, 400, DefaultContrast)

	if got := out.Bounds().Dx(); got != 600 {
		t.Errorf("normalized width = %d, want 600 (no downscale)", got)
	}
	if got := out.Bounds().Dy(); got != 300 {
		t.Errorf("normalized height = %d, want 300", got)
	}
}

func TestNormalizeOutputIsGrayscale(t *testing.T) {
	out := Normalize(createTestImage(100, 100), 100, DefaultContrast)

	for _, pt := range []image.Point{{10, 10}, {50, 50}, {90, 90}} {
		c := out.NRGBAAt(pt.X, pt.Y)
		if c.R != c.G || c.G != c.B {
			t.Errorf("pixel %v = %v, want equal channels", pt, c)
		}
	}
}

func TestNormalizeHandlesGrayAndPalettedInput(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 60, 40))
	paletted := image.NewPaletted(image.Rect(0, 0, 60, 40), color.Palette{
		color.Black, color.White,
	})

	for _, img := range []image.Image{gray, paletted} {
		out := Normalize(img, 120, DefaultContrast)
		if out.Bounds().Dx() != 120 {
			t.Errorf("normalized width = %d, want 120", out.Bounds().Dx())
		}
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	img := createTestImage(20, 20)

	data, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG() error: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(EncodePNG()) error: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("round-trip bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}
