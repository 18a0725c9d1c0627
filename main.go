// gsteg hides Hill+S-DES encrypted messages in the low bits of images.
package main

import (
	"os"

	"github.com/idelchi/gsteg/internal/commands"
	"github.com/idelchi/gsteg/internal/config"
)

// version is set at build time.
var version = "dev" //nolint:gochecknoglobals

func main() {
	cfg := &config.Config{}

	if err := commands.NewRootCommand(cfg, version).Execute(); err != nil {
		os.Exit(1)
	}
}
