package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gsteg/internal/config"
	"github.com/idelchi/gsteg/internal/logic"
)

// NewCapacityCommand creates a new cobra command for the capacity subcommand.
func NewCapacityCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "capacity [flags] [paths/patterns...]",
		Aliases: []string{"cap"},
		Short:   "Check that messages fit in the carrier image",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg, false, true),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.RunCapacity(cfg)
		},
	}
}
