package db

import (
	"encoding/binary"
	"math"
)

// VectorField is the hash field holding the FLOAT32 embedding blob.
const VectorField = "vector"

// EncodeVector packs a vector as little-endian FLOAT32 bytes, the layout
// FT.SEARCH expects for both stored vectors and KNN query parameters.
func EncodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
