package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gsteg/internal/config"
	"github.com/idelchi/gsteg/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
// Key material comes from flags, or from the sealed sidecar when a seal key
// is given. Without a sidecar the original letter count is unknown and a
// trailing padding letter may survive in the output.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] [paths/patterns...]",
		Aliases: []string{"dec", "extract"},
		Short:   "Recover messages from stego images",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg, true, false),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}
}
