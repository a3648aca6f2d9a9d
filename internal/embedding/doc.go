// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

/*
Package embedding converts between stored embedding blobs and float32 vectors.

Every game carries a precomputed embedding produced upstream by a sentence
encoder. The store keeps it as a packed sequence of little-endian IEEE-754
32-bit floats with no header, so a 384-dimension vector occupies exactly
1536 bytes.

# Decoding

Decode validates the shape before returning anything:

	vec, err := embedding.Decode(blob, embedding.DefaultDim)
	if errors.Is(err, embedding.ErrShape) {
	    // wrong length: skip the row or fail the request
	}

A blob whose length is not a multiple of four, or whose element count differs
from the expected dimensionality, is rejected with a *ShapeError. Vectors are
never truncated or padded.

# Encoding

Encode is the inverse and is used by the ingest job when the source file
carries the embedding as a numeric list instead of raw bytes.
*/
package embedding
