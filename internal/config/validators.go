package config

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/idelchi/gsteg/internal/hill"
)

//nolint:gochecknoglobals // a single shared validator instance is the library's intended use
var (
	validatorOnce   sync.Once
	structValidator *validator.Validate
)

// validate runs the struct-tag validation with the custom validators registered.
func validate(c *Config) error {
	validatorOnce.Do(func() {
		structValidator = validator.New()

		// Tag registration only fails for empty tag names.
		_ = structValidator.RegisterValidation("bits", validateBits)
		_ = structValidator.RegisterValidation("keymatrix", validateKeyMatrix)
	})

	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("struct validation: %w", err)
	}

	return nil
}

// validateBits accepts strings made of '0' and '1' only.
func validateBits(fl validator.FieldLevel) bool {
	s := fl.Field().String()

	for i := range len(s) {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}

	return true
}

// validateKeyMatrix accepts flat "a,b,c,d" matrices that are invertible mod 26.
func validateKeyMatrix(fl validator.FieldLevel) bool {
	m, err := hill.Parse(fl.Field().String())
	if err != nil {
		return false
	}

	return m.Invertible()
}
