package sdes_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/idelchi/gsteg/internal/sdes"
)

func TestKeySchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key string
		k1  string
		k2  string
	}{
		{key: "1010000010", k1: "10100100", k2: "01000011"},
		{key: "1110001110", k1: "11101100", k2: "11000111"},
		{key: "0000000000", k1: "00000000", k2: "00000000"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			t.Parallel()

			got, err := sdes.KeySchedule(tc.key)
			if err != nil {
				t.Fatalf("KeySchedule(%q): %v", tc.key, err)
			}

			if got.K1 != tc.k1 || got.K2 != tc.k2 {
				t.Errorf("KeySchedule(%q) = (%s, %s), want (%s, %s)", tc.key, got.K1, got.K2, tc.k1, tc.k2)
			}
		})
	}
}

func TestKeyScheduleRejectsMalformedKeys(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"", "101000001", "10100000101", "101000001x"} {
		if _, err := sdes.KeySchedule(key); !errors.Is(err, sdes.ErrInvalidKeyLength) {
			t.Errorf("KeySchedule(%q): got %v, want ErrInvalidKeyLength", key, err)
		}
	}
}

func TestEncryptBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key    string
		block  string
		cipher string
	}{
		{key: "1010000010", block: "10100101", cipher: "11001010"},
		// The classic published teaching vector.
		{key: "1010000010", block: "01110010", cipher: "01110111"},
		{key: "1010000010", block: "00000000", cipher: "11001110"},
		{key: "1010000010", block: "11111111", cipher: "00101010"},
		{key: "1110001110", block: "10100101", cipher: "00010011"},
		{key: "1110001110", block: "01110010", cipher: "01010001"},
		{key: "0000000000", block: "10100101", cipher: "00000010"},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s_%s", tc.key, tc.block), func(t *testing.T) {
			t.Parallel()

			keys, err := sdes.KeySchedule(tc.key)
			if err != nil {
				t.Fatalf("KeySchedule: %v", err)
			}

			got, err := sdes.EncryptBlock(tc.block, keys.K1, keys.K2)
			if err != nil {
				t.Fatalf("EncryptBlock: %v", err)
			}

			if got != tc.cipher {
				t.Errorf("EncryptBlock(%s) = %s, want %s", tc.block, got, tc.cipher)
			}

			back, err := sdes.DecryptBlock(got, keys.K1, keys.K2)
			if err != nil {
				t.Fatalf("DecryptBlock: %v", err)
			}

			if back != tc.block {
				t.Errorf("DecryptBlock(EncryptBlock(%s)) = %s", tc.block, back)
			}
		})
	}
}

func TestEncryptBlockRejectsMalformedBlocks(t *testing.T) {
	t.Parallel()

	keys, err := sdes.KeySchedule("1010000010")
	if err != nil {
		t.Fatalf("KeySchedule: %v", err)
	}

	for _, block := range []string{"", "1010", "101001011", "1010010x"} {
		if _, err := sdes.EncryptBlock(block, keys.K1, keys.K2); !errors.Is(err, sdes.ErrInvalidBlockLength) {
			t.Errorf("EncryptBlock(%q): got %v, want ErrInvalidBlockLength", block, err)
		}
	}
}

// Every block must survive an encrypt/decrypt pass under every half-way
// interesting key: the Feistel involution property.
func TestInvolution(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"1010000010", "1110001110", "0000000000", "1111111111", "0101010101"} {
		keys, err := sdes.KeySchedule(key)
		if err != nil {
			t.Fatalf("KeySchedule(%q): %v", key, err)
		}

		for b := range 256 {
			block := fmt.Sprintf("%08b", b)

			cipher, err := sdes.EncryptBlock(block, keys.K1, keys.K2)
			if err != nil {
				t.Fatalf("EncryptBlock(%s): %v", block, err)
			}

			plain, err := sdes.DecryptBlock(cipher, keys.K1, keys.K2)
			if err != nil {
				t.Fatalf("DecryptBlock(%s): %v", cipher, err)
			}

			if plain != block {
				t.Fatalf("involution broken for key %s block %s: got %s", key, block, plain)
			}
		}
	}
}

func TestEncryptStream(t *testing.T) {
	t.Parallel()

	const key = "1010000010"

	// Two whole blocks.
	cipher, err := sdes.Encrypt("1010010101110010", key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if cipher != "1100101001110111" {
		t.Errorf("Encrypt = %s, want 1100101001110111", cipher)
	}

	plain, err := sdes.Decrypt(cipher, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}

	if plain != "1010010101110010" {
		t.Errorf("Decrypt = %s", plain)
	}
}

func TestEncryptPadsFinalBlock(t *testing.T) {
	t.Parallel()

	const key = "1010000010"

	// 4 bits segment into one zero-padded block: 1010 -> 10100000.
	short, err := sdes.Encrypt("1010", key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	padded, err := sdes.Encrypt("10100000", key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if short != padded {
		t.Errorf("short input %s, padded input %s: expected identical ciphertext", short, padded)
	}

	if len(short) != 8 {
		t.Errorf("ciphertext length = %d, want 8", len(short))
	}
}
