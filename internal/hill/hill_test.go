package hill_test

import (
	"errors"
	"testing"

	"github.com/idelchi/gsteg/internal/hill"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    hill.Matrix
		wantErr bool
	}{
		{name: "plain", input: "3,2,5,7", want: hill.Matrix{{3, 2}, {5, 7}}},
		{name: "spaces", input: " 3, 2, 5, 7 ", want: hill.Matrix{{3, 2}, {5, 7}}},
		{name: "reduced mod 26", input: "29,-2,5,33", want: hill.Matrix{{3, 24}, {5, 7}}},
		{name: "too few entries", input: "3,2,5", wantErr: true},
		{name: "not a number", input: "3,2,5,x", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := hill.Parse(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q): expected error, got %v", tc.input, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.input, err)
			}

			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestInvertible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		matrix hill.Matrix
		want   bool
	}{
		// det 11, gcd(11,26)=1
		{name: "textbook valid", matrix: hill.Matrix{{3, 2}, {5, 7}}, want: true},
		// det 2 shares a factor with 26
		{name: "even determinant", matrix: hill.Matrix{{2, 0}, {0, 1}}, want: false},
		// det 13 divides 26
		{name: "det thirteen", matrix: hill.Matrix{{13, 0}, {0, 1}}, want: false},
		{name: "zero determinant", matrix: hill.Matrix{{1, 1}, {1, 1}}, want: false},
		{name: "identity", matrix: hill.Matrix{{1, 0}, {0, 1}}, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.matrix.Invertible(); got != tc.want {
				t.Errorf("Invertible(%v) = %v, want %v", tc.matrix, got, tc.want)
			}
		})
	}
}

func TestInverse(t *testing.T) {
	t.Parallel()

	matrix := hill.Matrix{{3, 2}, {5, 7}}

	// det = 11, 11*19 = 209 = 8*26+1, so detInv = 19.
	want := hill.Matrix{{3, 14}, {9, 5}}

	got, err := matrix.Inverse()
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	if got != want {
		t.Errorf("Inverse(%v) = %v, want %v", matrix, got, want)
	}

	if _, err := (hill.Matrix{{2, 0}, {0, 1}}).Inverse(); !errors.Is(err, hill.ErrInvalidKeyMatrix) {
		t.Errorf("Inverse of singular matrix: got %v, want ErrInvalidKeyMatrix", err)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	matrix := hill.Matrix{{3, 2}, {5, 7}}

	tests := []struct {
		name       string
		input      string
		processed  string
		origLength int
		cipher     string
	}{
		{name: "odd length padded", input: "HELLO", processed: "HELLOX", origLength: 5, cipher: "DLDCKX"},
		{name: "mixed case and noise", input: "Attack at Dawn!", processed: "ATTACKATDAWN", origLength: 12, cipher: "MDFRACMDJPOT"},
		{name: "two letters", input: "hi", processed: "HI", origLength: 2, cipher: "LN"},
		{name: "empty", input: "123 .!", processed: "", origLength: 0, cipher: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := hill.Encode(tc.input, matrix)
			if err != nil {
				t.Fatalf("Encode(%q): %v", tc.input, err)
			}

			if got.Processed != tc.processed {
				t.Errorf("Processed = %q, want %q", got.Processed, tc.processed)
			}

			if got.OriginalLength != tc.origLength {
				t.Errorf("OriginalLength = %d, want %d", got.OriginalLength, tc.origLength)
			}

			if got.CipherText != tc.cipher {
				t.Errorf("CipherText = %q, want %q", got.CipherText, tc.cipher)
			}
		})
	}
}

func TestEncodeRejectsSingularMatrix(t *testing.T) {
	t.Parallel()

	if _, err := hill.Encode("HELLO", hill.Matrix{{2, 0}, {0, 1}}); !errors.Is(err, hill.ErrInvalidKeyMatrix) {
		t.Errorf("Encode: got %v, want ErrInvalidKeyMatrix", err)
	}

	if _, err := hill.Decode("DLDCKX", hill.Matrix{{2, 0}, {0, 1}}, 5); !errors.Is(err, hill.ErrInvalidKeyMatrix) {
		t.Errorf("Decode: got %v, want ErrInvalidKeyMatrix", err)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	matrix := hill.Matrix{{3, 2}, {5, 7}}

	got, err := hill.Decode("DLDCKX", matrix, 5)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got != "HELLO" {
		t.Errorf("Decode = %q, want %q", got, "HELLO")
	}

	// Zero original length skips truncation, keeping the padding letter.
	got, err = hill.Decode("DLDCKX", matrix, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got != "HELLOX" {
		t.Errorf("Decode without length = %q, want %q", got, "HELLOX")
	}

	if _, err := hill.Decode("ABC", matrix, 0); err == nil {
		t.Error("Decode of odd-length cipher text: expected error")
	}
}

// A genuine trailing X must survive: truncation, not pattern stripping.
func TestDecodeKeepsGenuineTrailingX(t *testing.T) {
	t.Parallel()

	matrix := hill.Matrix{{3, 2}, {5, 7}}

	encoded, err := hill.Encode("BOX", matrix)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := hill.Decode(encoded.CipherText, matrix, encoded.OriginalLength)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got != "BOX" {
		t.Errorf("round trip = %q, want %q", got, "BOX")
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	matrices := []hill.Matrix{
		{{3, 2}, {5, 7}},
		{{1, 0}, {0, 1}},
		{{5, 8}, {17, 3}},
		{{9, 4}, {5, 7}},
	}

	inputs := []string{"A", "GO", "STEGANOGRAPHY", "THEQUICKBROWNFOX", "XX"}

	for _, matrix := range matrices {
		if !matrix.Invertible() {
			t.Fatalf("test matrix %v is not invertible", matrix)
		}

		for _, input := range inputs {
			encoded, err := hill.Encode(input, matrix)
			if err != nil {
				t.Fatalf("Encode(%q, %v): %v", input, matrix, err)
			}

			got, err := hill.Decode(encoded.CipherText, matrix, encoded.OriginalLength)
			if err != nil {
				t.Fatalf("Decode(%q, %v): %v", encoded.CipherText, matrix, err)
			}

			if got != input {
				t.Errorf("round trip of %q under %v = %q", input, matrix, got)
			}
		}
	}
}
