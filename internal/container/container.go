// Package container models an instrument file as an ordered sequence of
// (header, pixel array) records. The concrete on-disk codec lives behind
// the Reader interface; the fits subpackage provides the FITS-backed one.
package container

import (
	"strings"

	"github.com/helio-data/sunprep/internal/cube"
)

// Header is an ordered mapping from keyword to scalar value. Keywords are
// case-insensitive and stored upper-case, matching FITS conventions.
// Insertion order is preserved; setting an existing keyword updates in
// place without reordering.
type Header struct {
	keys   []string
	values map[string]any
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{values: make(map[string]any)}
}

// Set stores v under key, appending the key on first use.
func (h *Header) Set(key string, v any) {
	k := strings.ToUpper(key)
	if _, ok := h.values[k]; !ok {
		h.keys = append(h.keys, k)
	}
	h.values[k] = v
}

// Get returns the value for key and whether it is present.
func (h *Header) Get(key string) (any, bool) {
	v, ok := h.values[strings.ToUpper(key)]
	return v, ok
}

// Has reports whether key is present.
func (h *Header) Has(key string) bool {
	_, ok := h.values[strings.ToUpper(key)]
	return ok
}

// Float returns the value for key coerced to float64. Integer and float
// scalar types coerce; anything else reports false.
func (h *Header) Float(key string) (float64, bool) {
	v, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Keys returns the keywords in insertion order.
func (h *Header) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Len returns the number of keywords.
func (h *Header) Len() int { return len(h.keys) }

// Record pairs one header with one pixel array, in container order.
type Record struct {
	Header *Header
	Data   *cube.Cube
}

// Reader opens an instrument container file and returns its records in
// on-disk order.
type Reader interface {
	ReadFile(path string) ([]Record, error)
}
