// Package overlay renders capture-time captions as transparent PNG frames
// that the encoder composites over image sequences.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	background = color.NRGBA{A: 0x99}
	foreground = image.White
)

const padding = 2

// Render draws text onto a width x height canvas. The band is translucent
// black and the glyphs are scaled to fill its height, left aligned.
func Render(text string, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("overlay size %dx%d must be positive", width, height)
	}
	face := basicfont.Face7x13
	drawer := &font.Drawer{Face: face, Src: foreground}
	advance := drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	glyphH := metrics.Height.Ceil()

	glyphs := image.NewNRGBA(image.Rect(0, 0, advance+2*padding, glyphH+2*padding))
	drawer.Dst = glyphs
	drawer.Dot = fixed.P(padding, padding+metrics.Ascent.Ceil())
	drawer.DrawString(text)

	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	scale := float64(height) / float64(glyphs.Bounds().Dy())
	targetW := int(float64(glyphs.Bounds().Dx()) * scale)
	if targetW > width {
		targetW = width
	}
	draw.NearestNeighbor.Scale(canvas, image.Rect(0, 0, targetW, height), glyphs, glyphs.Bounds(), draw.Over, nil)
	return canvas, nil
}

// WritePNG renders text and stores it at path.
func WritePNG(path, text string, width, height int) error {
	img, err := Render(text, width, height)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode overlay: %w", err)
	}
	return f.Close()
}
