// Package bitstream converts text to and from streams of '0'/'1'
// characters and segments streams into fixed-width chunks.
//
// Streams are plain strings so they splice naturally with delimiter
// constants and block ciphers operating on binary-digit strings.
package bitstream

import (
	"errors"
	"fmt"
	"strings"
)

// CharWidth is the number of bits encoding one character.
const CharWidth = 8

// ErrRaggedStream is returned when a stream's length is not a multiple of
// the chunk width in a direction where padding cannot be inverted.
var ErrRaggedStream = errors.New("bit stream length is not a multiple of the chunk width")

// FromText concatenates the zero-padded 8-bit code of every character in order.
func FromText(text string) string {
	var b strings.Builder

	b.Grow(len(text) * CharWidth)

	for i := range len(text) {
		c := text[i]
		for shift := CharWidth - 1; shift >= 0; shift-- {
			b.WriteByte('0' + (c>>shift)&1)
		}
	}

	return b.String()
}

// ToText regroups bits into 8-bit chunks and decodes each as a character
// code. A trailing short chunk is invalid in this direction: the zero
// padding applied by Segment is not reversible without outside length
// bookkeeping, so ragged input is rejected rather than guessed at.
func ToText(bits string) (string, error) {
	if len(bits)%CharWidth != 0 {
		return "", ErrRaggedStream
	}

	out := make([]byte, 0, len(bits)/CharWidth)

	for i := 0; i < len(bits); i += CharWidth {
		var c byte

		for j := range CharWidth {
			switch bits[i+j] {
			case '0':
				c <<= 1
			case '1':
				c = c<<1 | 1
			default:
				return "", fmt.Errorf("bit %d: invalid character %q", i+j, bits[i+j])
			}
		}

		out = append(out, c)
	}

	return string(out), nil
}

// Segment splits bits into width-sized chunks, right-zero-padding only the
// final chunk when it comes up short. Callers must track the true payload
// length separately; the padding is irreversible on its own.
func Segment(bits string, width int) []string {
	if len(bits) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(bits)+width-1)/width)

	for i := 0; i < len(bits); i += width {
		end := i + width
		if end > len(bits) {
			chunk := bits[i:] + strings.Repeat("0", end-len(bits))
			chunks = append(chunks, chunk)

			break
		}

		chunks = append(chunks, bits[i:end])
	}

	return chunks
}
