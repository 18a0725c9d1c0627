package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gsteg/internal/config"
	"github.com/idelchi/gsteg/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] files...",
		Aliases: []string{"enc", "embed"},
		Short:   "Encrypt message files and embed them into the carrier image",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg, false, false),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}
}
