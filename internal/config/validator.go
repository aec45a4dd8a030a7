// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, so the binary never runs
// with partial or malformed configuration.
//
// The `objects` section carries its own rules in defineobjects.Names;
// validateStruct runs them too so an empty binding name fails at boot
// rather than on the first request.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if err := c.Objects.Validate(); err != nil {
		return fmt.Errorf("objects: %w", err)
	}
	return nil
}
