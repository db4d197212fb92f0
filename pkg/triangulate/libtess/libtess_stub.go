//go:build !libtess2

// Package libtess provides a cap triangulator backed by the libtess2
// sweep-line tessellator. When the "libtess2" build tag is not set, this
// stub is compiled instead, returning an error from New().
//
// Build with: go build -tags=libtess2
package libtess

import (
	"errors"

	"github.com/marbeck/relievo/pkg/triangulate"
)

// New returns an error indicating libtess2 is not available.
// Build with -tags=libtess2 to enable.
func New() (triangulate.Triangulator, error) {
	return nil, errors.New("libtess2 triangulator not available: build with -tags=libtess2")
}
