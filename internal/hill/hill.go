// Package hill implements the Hill cipher over the 26-letter alphabet using
// 2x2 key matrices with arithmetic mod 26.
//
// Input text is reduced to A-Z (non-letters stripped, lower case raised) and
// padded with a single 'X' when the letter count is odd, since the cipher
// transforms 2-letter vectors. The pre-padding letter count must be carried
// alongside the ciphertext to recover the exact original message.
package hill

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	alphabetSize = 26
	padLetter    = 'X'
)

// ErrInvalidKeyMatrix is returned when the matrix determinant has no modular
// inverse mod 26, making the matrix unusable for either direction.
var ErrInvalidKeyMatrix = errors.New("key matrix is not invertible mod 26")

// Matrix is a 2x2 integer key matrix. Entries are interpreted mod 26.
type Matrix [2][2]int

// Parse reads a matrix from its flat comma-separated form "a,b,c,d",
// filling the matrix row by row.
func Parse(s string) (Matrix, error) {
	var m Matrix

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return m, fmt.Errorf("matrix %q: expected 4 comma-separated integers", s)
	}

	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return m, fmt.Errorf("matrix %q: entry %d: %w", s, i, err)
		}

		m[i/2][i%2] = mod(n)
	}

	return m, nil
}

// String renders the matrix in the flat form accepted by Parse.
func (m Matrix) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", m[0][0], m[0][1], m[1][0], m[1][1])
}

// Determinant returns the raw (unreduced) determinant.
func (m Matrix) Determinant() int {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Invertible reports whether the matrix can be inverted mod 26, i.e. whether
// its determinant mod 26 is coprime with 26.
func (m Matrix) Invertible() bool {
	_, ok := modInverse(mod(m.Determinant()))

	return ok
}

// Inverse returns the modular inverse matrix, or ErrInvalidKeyMatrix when
// the determinant is not invertible mod 26.
func (m Matrix) Inverse() (Matrix, error) {
	detInv, ok := modInverse(mod(m.Determinant()))
	if !ok {
		return Matrix{}, ErrInvalidKeyMatrix
	}

	return Matrix{
		{mod(detInv * m[1][1]), mod(detInv * -m[0][1])},
		{mod(detInv * -m[1][0]), mod(detInv * m[0][0])},
	}, nil
}

// modInverse finds the inverse of d mod 26 by exhaustive scan over 1..25.
// The modulus is tiny and fixed, so the scan is the reference answer for
// every caller; extended Euclid would buy nothing here.
func modInverse(d int) (int, bool) {
	for i := 1; i < alphabetSize; i++ {
		if d*i%alphabetSize == 1 {
			return i, true
		}
	}

	return 0, false
}

// mod reduces n into 0..25, mapping negative values correctly.
func mod(n int) int {
	return ((n % alphabetSize) + alphabetSize) % alphabetSize
}

// Normalize strips non-letters and upper-cases the remainder.
func Normalize(text string) string {
	var b strings.Builder

	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		}
	}

	return b.String()
}

// Encoded is the result of one Encode call.
type Encoded struct {
	// Processed is the normalized, padded text that was actually encoded.
	Processed string

	// OriginalLength is the letter count before padding. Decode uses it to
	// truncate away the padding letter.
	OriginalLength int

	// CipherText is the encoded text, same length as Processed.
	CipherText string
}

// Encode normalizes text, pads it to even length and encodes each letter
// pair as a vector-matrix product mod 26.
func Encode(text string, m Matrix) (Encoded, error) {
	if !m.Invertible() {
		return Encoded{}, ErrInvalidKeyMatrix
	}

	processed := Normalize(text)
	originalLength := len(processed)

	if len(processed)%2 != 0 {
		processed += string(rune(padLetter))
	}

	return Encoded{
		Processed:      processed,
		OriginalLength: originalLength,
		CipherText:     transform(processed, m),
	}, nil
}

// Decode applies the inverse matrix to cipherText and truncates the result
// to originalLength letters. A zero originalLength skips truncation, in
// which case a trailing padding letter may survive.
//
// Truncation rather than pattern stripping: a genuine trailing 'X' in the
// plaintext must not be eaten.
func Decode(cipherText string, m Matrix, originalLength int) (string, error) {
	inverse, err := m.Inverse()
	if err != nil {
		return "", err
	}

	cipherText = Normalize(cipherText)
	if len(cipherText)%2 != 0 {
		return "", fmt.Errorf("cipher text has odd length %d", len(cipherText))
	}

	plain := transform(cipherText, inverse)

	if originalLength > 0 && originalLength < len(plain) {
		plain = plain[:originalLength]
	}

	return plain, nil
}

// transform multiplies each consecutive letter pair by the matrix mod 26.
// The input must be normalized and of even length.
func transform(text string, m Matrix) string {
	out := make([]byte, len(text))

	for i := 0; i+1 < len(text); i += 2 {
		c1 := int(text[i] - 'A')
		c2 := int(text[i+1] - 'A')

		out[i] = byte(mod(m[0][0]*c1+m[0][1]*c2)) + 'A'
		out[i+1] = byte(mod(m[1][0]*c1+m[1][1]*c2)) + 'A'
	}

	return string(out)
}
