// Package commands provides the command-line interface for the gsteg tool.
//
// It implements commands for:
//   - embedding encrypted messages into carrier images (encrypt)
//   - recovering messages from stego images (decrypt)
//   - checking carrier capacity against message sizes (capacity)
//   - generating key material (generate)
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gsteg/internal/config"
)

// preRun returns a PreRunE handler that binds flags into the configuration,
// resolves positional args into cfg.Files and validates everything before
// the command body runs.
func preRun(cfg *config.Config, decrypt, inspect bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
			return fmt.Errorf("binding root flags: %w", err)
		}

		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("binding flags: %w", err)
		}

		if err := viper.Unmarshal(cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}

		cfg.Decrypt = decrypt
		cfg.Inspect = inspect

		if len(args) == 0 {
			cfg.Files = []string{"."}
		} else {
			cfg.Files = args
		}

		return cfg.Validate()
	}
}
