package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	PlaceholderWidth  = 400
	PlaceholderHeight = 250
)

var (
	placeholderBackground = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	placeholderText       = color.Black
)

// Placeholder renders word in black on a light grey 400x250 JPEG
func Placeholder(word string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: placeholderBackground}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(20, 100),
	}
	d.DrawString(word)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
