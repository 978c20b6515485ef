// Package external holds the clients of the third-party services the
// assistant depends on. Each vendor lives in its own sub-package.
package external

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is the root of every configuration error.
var ErrNotConfigured = errors.New("service not configured")

// MissingSettingError reports a credential or setting that must be provided
// before a service can be used.
type MissingSettingError struct {
	Setting string
}

func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("%s not set", e.Setting)
}

func (e *MissingSettingError) Unwrap() error {
	return ErrNotConfigured
}
