// Package config defines the runtime configuration shared by all commands
// and validates it before any work starts.
package config

import (
	"errors"
	"fmt"
)

// Config holds every flag and environment-derived setting. Fields are
// populated by viper (mapstructure tags) and checked by go-playground
// validator tags plus the cross-field rules in Validate.
type Config struct {
	// Matrix is the 2x2 Hill key matrix in flat "a,b,c,d" form.
	Matrix string `mapstructure:"matrix" validate:"omitempty,keymatrix"`

	// Key is the 10-digit binary S-DES key.
	Key string `mapstructure:"key" validate:"omitempty,len=10,bits"`

	// Carrier is the path of the carrier image (encrypt and capacity).
	Carrier string `mapstructure:"carrier"`

	// SealKey optionally encrypts the key material inside sidecars
	// (64 bytes, hex-encoded).
	SealKey string `mapstructure:"seal-key" validate:"omitempty,hexadecimal,len=128"`

	// Parallel bounds the number of concurrently processed files.
	Parallel int `mapstructure:"parallel" validate:"min=1"`

	// Common behavior flags.
	Quiet              bool `mapstructure:"quiet"`
	Stats              bool `mapstructure:"stats"`
	Dry                bool `mapstructure:"dry-run"`
	Delete             bool `mapstructure:"delete"`
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	// Include/exclude file selection.
	Include     []string `mapstructure:"include"`
	Exclude     []string `mapstructure:"exclude"`
	IncludeFrom string   `mapstructure:"include-from"`
	ExcludeFrom string   `mapstructure:"exclude-from"`

	// Output suffixes.
	EncryptSuffix string `mapstructure:"encrypt-ext"`
	DecryptSuffix string `mapstructure:"decrypt-ext"`

	// Command selectors, set by the subcommands rather than flags.
	Decrypt bool `mapstructure:"-"`
	Inspect bool `mapstructure:"-"`

	// Positional arguments.
	Files []string `mapstructure:"-" validate:"min=1"`
}

// Validate checks the struct tags and the rules that depend on the active
// command: encrypt needs full key material and a carrier, decrypt can defer
// keys to a sealed sidecar, capacity inspection needs only the carrier.
func (c *Config) Validate() error {
	if err := validate(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	switch {
	case c.Inspect:
		if c.Carrier == "" {
			return errors.New("capacity: a carrier image is required (--carrier)")
		}
	case c.Decrypt:
		if c.SealKey == "" && (c.Matrix == "" || c.Key == "") {
			return errors.New("decrypt: key matrix and key are required unless a seal key is given")
		}
	default:
		if c.Matrix == "" || c.Key == "" {
			return errors.New("encrypt: key matrix (--matrix) and key (--key) are required")
		}

		if c.Carrier == "" {
			return errors.New("encrypt: a carrier image is required (--carrier)")
		}
	}

	return nil
}
