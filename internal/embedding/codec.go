// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package embedding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// DefaultDim is the dimensionality of the production embedding model.
const DefaultDim = 384

// bytesPerElement is the width of one packed float32.
const bytesPerElement = 4

// ErrShape is the sentinel matched by every *ShapeError.
var ErrShape = errors.New("embedding shape mismatch")

// ShapeError reports a blob that does not decode to the expected dimensionality.
type ShapeError struct {
	// Bytes is the length of the rejected blob.
	Bytes int
	// Got is the number of whole float32 values in the blob.
	Got int
	// Want is the expected dimensionality.
	Want int
}

func (e *ShapeError) Error() string {
	if e.Bytes%bytesPerElement != 0 {
		return fmt.Sprintf("embedding shape mismatch: %d bytes is not a whole number of float32 values (want %d)", e.Bytes, e.Want)
	}
	return fmt.Sprintf("embedding shape mismatch: got %d values, want %d", e.Got, e.Want)
}

// Is lets errors.Is(err, ErrShape) match any *ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// Decode reads blob as packed little-endian float32 values.
// It fails with a *ShapeError unless the blob holds exactly dim values.
func Decode(blob []byte, dim int) ([]float32, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimensionality %d", dim)
	}
	vec := make([]float32, dim)
	if err := DecodeInto(vec, blob); err != nil {
		return nil, err
	}
	return vec, nil
}

// DecodeInto is Decode writing into dst, which must have length dim.
// It lets the corpus loader fill rows of a preallocated matrix.
func DecodeInto(dst []float32, blob []byte) error {
	dim := len(dst)
	if dim == 0 {
		return fmt.Errorf("invalid dimensionality %d", dim)
	}
	if len(blob)%bytesPerElement != 0 || len(blob)/bytesPerElement != dim {
		return &ShapeError{Bytes: len(blob), Got: len(blob) / bytesPerElement, Want: dim}
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*bytesPerElement:]))
	}
	return nil
}

// Encode packs vec as little-endian float32 values.
func Encode(vec []float32) []byte {
	buf := make([]byte, len(vec)*bytesPerElement)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*bytesPerElement:], math.Float32bits(v))
	}
	return buf
}

// FromFloat64 narrows a float64 slice to float32, rejecting values that
// overflow float32 or are not finite.
func FromFloat64(values []float64) ([]float32, error) {
	out := make([]float32, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxFloat32 {
			return nil, fmt.Errorf("element %d: value %v is not a finite float32", i, v)
		}
		out[i] = float32(v)
	}
	return out, nil
}
