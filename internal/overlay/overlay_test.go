package overlay

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderDimensionsAndInk(t *testing.T) {
	img, err := Render("2021-03-04 05:06:07", 640, 48)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 48 {
		t.Fatalf("unexpected bounds %v", b)
	}

	bright := 0
	for y := 0; y < 48; y++ {
		for x := 0; x < 640; x++ {
			if c := img.NRGBAAt(x, y); c.R > 0x80 && c.A > 0x80 {
				bright++
			}
		}
	}
	if bright == 0 {
		t.Fatal("expected rendered glyph pixels")
	}
	if c := img.NRGBAAt(639, 0); c.A == 0xFF {
		t.Fatalf("background should be translucent, got alpha %d", c.A)
	}
}

func TestRenderRejectsBadSize(t *testing.T) {
	if _, err := Render("Unknown", 0, 48); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts0000000000.png")
	if err := WritePNG(path, "Unknown", 320, 24); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 24 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}
