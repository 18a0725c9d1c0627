package stego_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/idelchi/gsteg/internal/stego"
)

// testBuffer builds a width x height buffer with a repeating byte pattern
// whose channel low bits never spell out the delimiter.
func testBuffer(width, height int) *stego.PixelBuffer {
	pix := make([]byte, width*height*4)

	for i := range pix {
		pix[i] = byte(i * 7 % 251 &^ 1) // even values: all low bits zero
	}

	return &stego.PixelBuffer{Width: width, Height: height, Pix: pix}
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	t.Parallel()

	payloads := []string{
		"",
		"1",
		"10100101",
		strings.Repeat("10", 50),
		"0100100001001001", // "HI"
	}

	for _, payload := range payloads {
		carrier := testBuffer(8, 8)

		result, err := stego.Embed(carrier, payload)
		if err != nil {
			t.Fatalf("Embed(%q): %v", payload, err)
		}

		got, err := stego.Extract(result.Stego)
		if err != nil {
			t.Fatalf("Extract after embedding %q: %v", payload, err)
		}

		if got != payload {
			t.Errorf("Extract = %q, want %q", got, payload)
		}
	}
}

func TestEmbedDoesNotMutateCarrier(t *testing.T) {
	t.Parallel()

	carrier := testBuffer(4, 4)
	original := make([]byte, len(carrier.Pix))
	copy(original, carrier.Pix)

	if _, err := stego.Embed(carrier, "10101010"); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if !bytes.Equal(carrier.Pix, original) {
		t.Error("Embed mutated the caller's carrier buffer")
	}
}

func TestEmbedLeavesAlphaUntouched(t *testing.T) {
	t.Parallel()

	carrier := testBuffer(4, 4)

	result, err := stego.Embed(carrier, strings.Repeat("1", carrier.Capacity()-len(stego.Delimiter)))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	for i := 3; i < len(carrier.Pix); i += 4 {
		if result.Stego.Pix[i] != carrier.Pix[i] {
			t.Fatalf("alpha byte %d changed from %d to %d", i, carrier.Pix[i], result.Stego.Pix[i])
		}
	}
}

func TestEmbedCapacityBoundary(t *testing.T) {
	t.Parallel()

	carrier := testBuffer(4, 4) // capacity 48 bits

	capacity := carrier.Capacity()
	if capacity != 48 {
		t.Fatalf("Capacity = %d, want 48", capacity)
	}

	// Payload + delimiter exactly fills the carrier.
	exact := strings.Repeat("1", capacity-len(stego.Delimiter))

	result, err := stego.Embed(carrier, exact)
	if err != nil {
		t.Fatalf("Embed at exact capacity: %v", err)
	}

	if result.UsedBits != capacity {
		t.Errorf("UsedBits = %d, want %d", result.UsedBits, capacity)
	}

	// One more bit must fail.
	if _, err := stego.Embed(carrier, exact+"1"); !errors.Is(err, stego.ErrCapacityExceeded) {
		t.Errorf("Embed one bit over capacity: got %v, want ErrCapacityExceeded", err)
	}
}

func TestEmbedRejectsNonBinaryPayload(t *testing.T) {
	t.Parallel()

	if _, err := stego.Embed(testBuffer(4, 4), "01x"); err == nil {
		t.Error("Embed with invalid payload character: expected error")
	}
}

func TestExtractWithoutEmbedding(t *testing.T) {
	t.Parallel()

	if _, err := stego.Extract(testBuffer(8, 8)); !errors.Is(err, stego.ErrDelimiterNotFound) {
		t.Errorf("Extract on clean carrier: got %v, want ErrDelimiterNotFound", err)
	}
}

func TestEmbedStatistics(t *testing.T) {
	t.Parallel()

	carrier := testBuffer(8, 8)

	result, err := stego.Embed(carrier, "10100101") // 8 + 16 = 24 bits, 8 pixels
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if result.CapacityBits != 192 {
		t.Errorf("CapacityBits = %d, want 192", result.CapacityBits)
	}

	if result.UsedBits != 24 {
		t.Errorf("UsedBits = %d, want 24", result.UsedBits)
	}

	if result.PixelsTouched != 8 {
		t.Errorf("PixelsTouched = %d, want 8", result.PixelsTouched)
	}
}

func TestPSNR(t *testing.T) {
	t.Parallel()

	carrier := testBuffer(8, 8)

	if got := stego.PSNR(carrier, carrier.Clone()); !math.IsInf(got, 1) {
		t.Errorf("PSNR of identical buffers = %v, want +Inf", got)
	}

	// Embedding L bits flips at most L channel values by exactly 1,
	// bounding MSE by L/(3*pixels) and PSNR from below.
	result, err := stego.Embed(carrier, strings.Repeat("1", 32))
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	pixels := float64(carrier.Width * carrier.Height)
	worstMSE := float64(48) / (3 * pixels)
	bound := 20 * math.Log10(255/math.Sqrt(worstMSE))

	if result.PSNR < bound {
		t.Errorf("PSNR = %v, below worst-case bound %v", result.PSNR, bound)
	}
}

func TestPSNRSingleChannelDelta(t *testing.T) {
	t.Parallel()

	original := testBuffer(2, 2)

	modified := original.Clone()
	modified.Pix[0]++ // one channel off by one

	// MSE = 1 / (3 * 4) pixels; PSNR = 20*log10(255/sqrt(1/12)).
	want := 20 * math.Log10(255*math.Sqrt(12))

	if got := stego.PSNR(original, modified); math.Abs(got-want) > 1e-9 {
		t.Errorf("PSNR = %v, want %v", got, want)
	}
}
