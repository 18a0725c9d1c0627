// Package stego embeds and extracts delimiter-framed bit payloads in the
// least significant bits of RGBA pixel data, and scores the damage done to
// the carrier with a PSNR metric.
package stego

import (
	"errors"
	"fmt"
	"math"
)

// Delimiter terminates every embedded payload. Payload data is not escaped,
// so a payload that happens to contain this pattern will be truncated at
// the first occurrence on extraction.
const Delimiter = "1111111111111110"

const (
	channelsPerPixel = 4 // R, G, B, A
	usableChannels   = 3 // alpha is never touched
)

var (
	// ErrCapacityExceeded is returned when payload plus delimiter does not
	// fit in the carrier's R/G/B low bits.
	ErrCapacityExceeded = errors.New("payload exceeds carrier capacity")
	// ErrDelimiterNotFound is returned when extraction exhausts the carrier
	// without matching the delimiter: the image is corrupted, wrong, or was
	// never embedded into.
	ErrDelimiterNotFound = errors.New("delimiter not found in carrier")
)

// PixelBuffer is a width*height RGBA byte buffer, 4 bytes per pixel in
// stride order.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Clone returns a deep copy. Embed mutates only clones so the caller's
// buffer stays intact for the PSNR comparison.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)

	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Capacity returns the number of payload bits the buffer can hold:
// one per R, G and B channel of every pixel.
func (b *PixelBuffer) Capacity() int {
	return b.Width * b.Height * usableChannels
}

// EmbedResult carries the modified buffer and embedding statistics.
type EmbedResult struct {
	// Stego is the modified copy of the carrier.
	Stego *PixelBuffer

	// PixelsTouched is the number of pixels whose channels carried payload bits.
	PixelsTouched int

	// CapacityBits is the carrier's total payload capacity.
	CapacityBits int

	// UsedBits is the number of bits written, delimiter included.
	UsedBits int

	// PSNR is the peak signal-to-noise ratio between carrier and stego
	// buffers in decibels; +Inf when the buffers are identical.
	PSNR float64
}

// Embed writes payload followed by the 16-bit delimiter into the low bits
// of carrier's R/G/B channels, walking pixels in stride order. The carrier
// is cloned before any mutation.
func Embed(carrier *PixelBuffer, payload string) (*EmbedResult, error) {
	for i := range len(payload) {
		if payload[i] != '0' && payload[i] != '1' {
			return nil, fmt.Errorf("payload bit %d: invalid character %q", i, payload[i])
		}
	}

	full := payload + Delimiter
	capacity := carrier.Capacity()

	if len(full) > capacity {
		return nil, fmt.Errorf("%w: need %d bits, have %d", ErrCapacityExceeded, len(full), capacity)
	}

	stego := carrier.Clone()

	next := 0
	pixels := 0

	for base := 0; base < len(stego.Pix) && next < len(full); base += channelsPerPixel {
		pixels++

		for channel := range usableChannels {
			if next == len(full) {
				break
			}

			idx := base + channel
			stego.Pix[idx] = stego.Pix[idx]&^1 | (full[next] - '0')
			next++
		}
	}

	return &EmbedResult{
		Stego:         stego,
		PixelsTouched: pixels,
		CapacityBits:  capacity,
		UsedBits:      len(full),
		PSNR:          PSNR(carrier, stego),
	}, nil
}

// Extract walks the stego buffer in the same order as Embed, accumulating
// channel low bits until the last 16 match the delimiter, and returns the
// bits preceding it.
func Extract(img *PixelBuffer) (string, error) {
	bits := make([]byte, 0, img.Capacity())

	for base := 0; base < len(img.Pix); base += channelsPerPixel {
		for channel := range usableChannels {
			bits = append(bits, '0'+img.Pix[base+channel]&1)

			if n := len(bits); n >= len(Delimiter) && string(bits[n-len(Delimiter):]) == Delimiter {
				return string(bits[:n-len(Delimiter)]), nil
			}
		}
	}

	return "", ErrDelimiterNotFound
}

// PSNR computes the peak signal-to-noise ratio between two equally sized
// buffers. The mean squared error averages ((dR)^2+(dG)^2+(dB)^2)/3 over
// every pixel; alpha differences are ignored. Identical buffers yield +Inf.
func PSNR(original, modified *PixelBuffer) float64 {
	pixels := len(original.Pix) / channelsPerPixel

	var sum float64

	for base := 0; base < len(original.Pix); base += channelsPerPixel {
		for channel := range usableChannels {
			d := float64(original.Pix[base+channel]) - float64(modified.Pix[base+channel])
			sum += d * d
		}
	}

	mse := sum / float64(usableChannels) / float64(pixels)
	if mse == 0 {
		return math.Inf(1)
	}

	return 20 * math.Log10(255/math.Sqrt(mse))
}
