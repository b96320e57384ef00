//go:build !swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
)

// swaggerEnabled reports whether /swagger/* is served.
const swaggerEnabled = false

// MountSwagger is a no-op by default. Build with -tags=swagger to enable.
func MountSwagger(r chi.Router) {}
