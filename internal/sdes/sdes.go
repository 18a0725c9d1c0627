// Package sdes implements the Simplified DES teaching cipher: a 2-round
// Feistel network over 8-bit blocks with a 10-bit key.
//
// Blocks, keys and bit streams are strings of '0'/'1' characters; the codec
// in pkg/bitstream produces and consumes the same representation.
package sdes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/idelchi/gsteg/pkg/bitstream"
)

var (
	// ErrInvalidKeyLength is returned when the key is not exactly 10 binary digits.
	ErrInvalidKeyLength = errors.New("key must be exactly 10 binary digits")
	// ErrInvalidBlockLength is returned when a block is not exactly 8 binary digits.
	ErrInvalidBlockLength = errors.New("block must be exactly 8 binary digits")
)

// Fixed permutation and substitution tables (1-indexed positions).
var (
	p10       = []int{3, 5, 2, 7, 4, 10, 1, 9, 8, 6}
	p8        = []int{6, 3, 7, 4, 8, 5, 10, 9}
	ip        = []int{2, 6, 3, 1, 4, 8, 5, 7}
	ipInverse = []int{4, 1, 3, 5, 7, 2, 8, 6}
	expansion = []int{4, 1, 2, 3, 2, 3, 4, 1}
	p4        = []int{2, 4, 3, 1}

	s0 = [4][4]int{{1, 0, 3, 2}, {3, 2, 1, 0}, {0, 2, 1, 3}, {3, 1, 3, 2}}
	s1 = [4][4]int{{0, 1, 2, 3}, {2, 0, 1, 3}, {3, 0, 1, 0}, {2, 1, 0, 3}}
)

// KeySize is the key length in binary digits.
const KeySize = 10

// BlockSize is the block length in binary digits.
const BlockSize = 8

// SubKeys holds the two 8-bit round subkeys derived from one 10-bit key.
// Decryption reuses the pair with the roles of K1 and K2 swapped.
type SubKeys struct {
	K1 string
	K2 string
}

// KeySchedule derives (K1, K2) from a 10-bit key: P10, split into 5-bit
// halves, left-rotate each by 1 and apply P8 for K1; rotate the already
// rotated halves by 2 more (net 3) and apply P8 again for K2.
func KeySchedule(key string) (SubKeys, error) {
	if len(key) != KeySize || !isBinary(key) {
		return SubKeys{}, ErrInvalidKeyLength
	}

	permuted := permute(key, p10)

	left := rotateLeft(permuted[:5], 1)
	right := rotateLeft(permuted[5:], 1)
	k1 := permute(left+right, p8)

	left = rotateLeft(left, 2)
	right = rotateLeft(right, 2)
	k2 := permute(left+right, p8)

	return SubKeys{K1: k1, K2: k2}, nil
}

// EncryptBlock runs one 8-bit block through the 2-round Feistel network.
// Round 1 swaps the halves, round 2 does not; reversing the subkey order
// for decryption depends on exactly this structure.
func EncryptBlock(block, k1, k2 string) (string, error) {
	if len(block) != BlockSize || !isBinary(block) {
		return "", ErrInvalidBlockLength
	}

	permuted := permute(block, ip)
	left, right := permuted[:4], permuted[4:]

	// Round 1 with swap.
	left, right = right, xorBits(left, round(right, k1))

	// Round 2, no swap.
	left = xorBits(left, round(right, k2))

	return permute(left+right, ipInverse), nil
}

// DecryptBlock inverts EncryptBlock by applying the subkeys in reverse
// order; the non-swap on the final round makes the network an involution.
func DecryptBlock(block, k1, k2 string) (string, error) {
	return EncryptBlock(block, k2, k1)
}

// round is the Feistel round function: expand the 4-bit half to 8 bits,
// XOR with the subkey, reduce each 4-bit group through its S-box and
// permute the concatenated 2-bit outputs with P4.
func round(half, subKey string) string {
	expanded := xorBits(permute(half, expansion), subKey)

	return permute(sbox(expanded[:4], s0)+sbox(expanded[4:], s1), p4)
}

// sbox looks up a 4-bit group: bits 0 and 3 form the row, bits 1 and 2 the column.
func sbox(group string, box [4][4]int) string {
	row := bit(group[0])<<1 | bit(group[3])
	col := bit(group[1])<<1 | bit(group[2])

	value := box[row][col]

	return string([]byte{'0' + byte(value>>1), '0' + byte(value&1)})
}

// Encrypt segments bits into 8-bit blocks (final block right-zero-padded),
// encrypts every block independently under the derived subkeys and
// concatenates the results.
func Encrypt(bits, key string) (string, error) {
	return apply(bits, key, EncryptBlock)
}

// Decrypt is the block-wise inverse of Encrypt under the same key.
func Decrypt(bits, key string) (string, error) {
	return apply(bits, key, DecryptBlock)
}

func apply(bits, key string, transform func(block, k1, k2 string) (string, error)) (string, error) {
	keys, err := KeySchedule(key)
	if err != nil {
		return "", err
	}

	var out strings.Builder

	for i, block := range bitstream.Segment(bits, BlockSize) {
		result, err := transform(block, keys.K1, keys.K2)
		if err != nil {
			return "", fmt.Errorf("block %d: %w", i, err)
		}

		out.WriteString(result)
	}

	return out.String(), nil
}

// permute builds a new bit string by picking the 1-indexed positions listed
// in table from bits.
func permute(bits string, table []int) string {
	out := make([]byte, len(table))

	for i, pos := range table {
		out[i] = bits[pos-1]
	}

	return string(out)
}

func rotateLeft(half string, n int) string {
	n %= len(half)

	return half[n:] + half[:n]
}

func xorBits(a, b string) string {
	out := make([]byte, len(a))

	for i := range out {
		out[i] = '0' + (a[i] ^ b[i])
	}

	return string(out)
}

func bit(c byte) int {
	return int(c - '0')
}

func isBinary(s string) bool {
	for i := range len(s) {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}

	return true
}
