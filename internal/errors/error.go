// Package errors provides custom error types for catalog operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")

// ErrCatalogUnavailable is returned when the catalog file cannot be read or parsed.
var ErrCatalogUnavailable = errors.New("catalog unavailable")
