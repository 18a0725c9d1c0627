package commands

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"

	"github.com/idelchi/gsteg/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "gsteg [flags] command [flags]"
	root.Short = "Hide Hill+S-DES encrypted messages in images"
	root.Long = `A teaching tool chaining a Hill cipher, a Simplified-DES block cipher and
LSB image steganography. Messages are Hill-encoded, bit-encoded, S-DES
encrypted block-wise and embedded into the low bits of a carrier image.
These are classroom ciphers: nothing here is cryptographically secure.`

	viper.SetEnvPrefix("GSTEG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	root.PersistentFlags().StringP("matrix", "m", "", "Hill key matrix as \"a,b,c,d\", row by row, invertible mod 26")
	root.PersistentFlags().StringP("key", "k", "", "10-digit binary S-DES key")
	root.PersistentFlags().StringP("carrier", "c", "", "Path to the carrier image (png or jpeg)")
	root.PersistentFlags().String("seal-key", "", "Hex key (128 chars) sealing key material inside sidecars")

	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().Bool("stats", false, "Print processing statistics")
	root.PersistentFlags().Bool("dry-run", false, "Preview what would be processed without writing anything")
	root.PersistentFlags().BoolP("delete", "d", false, "Delete the original file after successful processing")
	root.PersistentFlags().Bool("preserve-timestamps", false, "Carry the input file's timestamps over to the output")

	root.PersistentFlags().StringSlice("include", nil, "Glob patterns selecting files when walking directories")
	root.PersistentFlags().StringSlice("exclude", nil, "Glob patterns excluding files (always win)")
	root.PersistentFlags().String("include-from", "", "JSONC file with include patterns")
	root.PersistentFlags().String("exclude-from", "", "JSONC file with exclude patterns")

	root.PersistentFlags().String("encrypt-ext", ".png", "Suffix to append to stego images")
	root.PersistentFlags().String("decrypt-ext", "", "Suffix to append to recovered messages, after stripping the stego suffix")

	root.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewCapacityCommand(cfg),
		NewGenerateCommand(),
	)

	return root
}
