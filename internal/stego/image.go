package stego

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	_ "image/jpeg" // carrier decode support
)

// ErrImageDecode is returned when the carrier image cannot be read.
var ErrImageDecode = errors.New("carrier image unreadable")

// DecodeImage reads a PNG or JPEG image into a PixelBuffer, converting to
// RGBA. Each call allocates a fresh buffer; no decode surface is shared.
func DecodeImage(r io.Reader) (*PixelBuffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}

	bounds := img.Bounds()

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &PixelBuffer{Width: bounds.Dx(), Height: bounds.Dy(), Pix: rgba.Pix}, nil
}

// EncodePNG writes the buffer as a PNG image. PNG is lossless, which the
// embedded low bits depend on.
func EncodePNG(w io.Writer, b *PixelBuffer) error {
	img := &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * channelsPerPixel,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}

	return nil
}
