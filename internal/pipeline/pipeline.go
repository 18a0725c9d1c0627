// Package pipeline composes the Hill cipher, the S-DES block cipher and the
// LSB image codec into end-to-end encrypt and decrypt flows, and processes
// message files concurrently.
//
// All state needed for an exact round trip (original letter count, key
// material, statistics) travels in an explicit Artifact; the stages share
// no ambient state.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/idelchi/gsteg/internal/hill"
	"github.com/idelchi/gsteg/internal/sdes"
	"github.com/idelchi/gsteg/internal/stego"
	"github.com/idelchi/gsteg/pkg/bitstream"
)

// Artifact is the combined result of one encrypt run: everything a later
// decrypt needs, plus the per-stage intermediates and statistics the caller
// may want to render or export.
type Artifact struct {
	// Processed is the normalized, padded text the Hill stage encoded.
	Processed string

	// CipherText is the Hill-encoded text.
	CipherText string

	// OriginalLength is the letter count before Hill padding.
	OriginalLength int

	// Matrix and Key are the caller-supplied key material.
	Matrix hill.Matrix
	Key    string

	// SubKeys are the round subkeys derived from Key.
	SubKeys sdes.SubKeys

	// PlainBlocks and CipherBlocks are the per-block S-DES inputs/outputs.
	PlainBlocks  []string
	CipherBlocks []string

	// Stego is the modified pixel buffer.
	Stego *stego.PixelBuffer

	// Embedding statistics.
	CapacityBits  int
	UsedBits      int
	PixelsTouched int
	PSNR          float64
}

// Encrypt runs the full forward flow: Hill encode, bit-encode, S-DES
// encrypt block-wise, LSB-embed into a fresh copy of carrier's pixels.
// All key validation happens before any transformation work.
func Encrypt(plainText string, matrix hill.Matrix, key string, carrier *stego.PixelBuffer) (*Artifact, error) {
	subKeys, err := sdes.KeySchedule(key)
	if err != nil {
		return nil, err
	}

	encoded, err := hill.Encode(plainText, matrix)
	if err != nil {
		return nil, err
	}

	bits := bitstream.FromText(encoded.CipherText)
	plainBlocks := bitstream.Segment(bits, sdes.BlockSize)
	cipherBlocks := make([]string, len(plainBlocks))

	var payload strings.Builder

	for i, block := range plainBlocks {
		cipherBlocks[i], err = sdes.EncryptBlock(block, subKeys.K1, subKeys.K2)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}

		payload.WriteString(cipherBlocks[i])
	}

	embedded, err := stego.Embed(carrier, payload.String())
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Processed:      encoded.Processed,
		CipherText:     encoded.CipherText,
		OriginalLength: encoded.OriginalLength,
		Matrix:         matrix,
		Key:            key,
		SubKeys:        subKeys,
		PlainBlocks:    plainBlocks,
		CipherBlocks:   cipherBlocks,
		Stego:          embedded.Stego,
		CapacityBits:   embedded.CapacityBits,
		UsedBits:       embedded.UsedBits,
		PixelsTouched:  embedded.PixelsTouched,
		PSNR:           embedded.PSNR,
	}, nil
}

// Decrypt runs the symmetric backward flow on an artifact.
func Decrypt(artifact *Artifact) (string, error) {
	return DecryptBuffer(artifact.Stego, artifact.Matrix, artifact.Key, artifact.OriginalLength)
}

// DecryptBuffer extracts the payload from a stego pixel buffer, S-DES
// decrypts it, regroups the bits into text and Hill-decodes, truncating to
// originalLength letters when it is known (zero skips truncation).
func DecryptBuffer(img *stego.PixelBuffer, matrix hill.Matrix, key string, originalLength int) (string, error) {
	bits, err := stego.Extract(img)
	if err != nil {
		return "", err
	}

	decrypted, err := sdes.Decrypt(bits, key)
	if err != nil {
		return "", err
	}

	cipherText, err := bitstream.ToText(decrypted)
	if err != nil {
		return "", err
	}

	return hill.Decode(cipherText, matrix, originalLength)
}

// RequiredBits returns the payload size, delimiter included, that embedding
// text would need. Useful for capacity checks before running the pipeline.
func RequiredBits(text string) int {
	letters := len(hill.Normalize(text))
	if letters%2 != 0 {
		letters++
	}

	return letters*bitstream.CharWidth + len(stego.Delimiter)
}
