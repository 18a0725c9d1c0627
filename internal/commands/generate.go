package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/idelchi/gsteg/internal/hill"
	"github.com/idelchi/gsteg/internal/pipeline"
	"github.com/idelchi/gsteg/internal/sdes"
)

// NewGenerateCommand creates a new cobra command emitting fresh key
// material: an invertible Hill matrix, a 10-bit S-DES key and a seal key.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a key matrix, a 10-bit key and a seal key",
		RunE: func(_ *cobra.Command, _ []string) error {
			matrix, err := randomMatrix()
			if err != nil {
				return err
			}

			key10, err := randomBits(sdes.KeySize)
			if err != nil {
				return err
			}

			sealKey := make([]byte, pipeline.SealKeySize)
			if _, err := rand.Read(sealKey); err != nil {
				return fmt.Errorf("generating seal key: %w", err)
			}

			fmt.Fprintf(os.Stdout, "matrix:   %s\n", matrix)
			fmt.Fprintf(os.Stdout, "key:      %s\n", key10)
			fmt.Fprintf(os.Stdout, "seal-key: %s\n", hex.EncodeToString(sealKey))

			return nil
		},
	}
}

// randomMatrix draws 2x2 matrices mod 26 until one is invertible. Roughly
// 44% of random matrices qualify, so the loop terminates quickly.
func randomMatrix() (hill.Matrix, error) {
	for {
		var m hill.Matrix

		for i := range 2 {
			for j := range 2 {
				n, err := rand.Int(rand.Reader, big.NewInt(26))
				if err != nil {
					return m, fmt.Errorf("generating matrix entry: %w", err)
				}

				m[i][j] = int(n.Int64())
			}
		}

		if m.Invertible() {
			return m, nil
		}
	}
}

func randomBits(n int) (string, error) {
	bits := make([]byte, n)
	if _, err := rand.Read(bits); err != nil {
		return "", fmt.Errorf("generating key bits: %w", err)
	}

	for i := range bits {
		bits[i] = '0' + bits[i]&1
	}

	return string(bits), nil
}
