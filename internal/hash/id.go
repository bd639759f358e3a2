// Package hash provides the content digest used to fingerprint encoded arrays.
package hash

import "github.com/cespare/xxhash/v2"

// Sum returns the xxHash64 digest of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// SumParts returns the xxHash64 digest of the concatenation of parts without
// materializing it.
func SumParts(parts ...[]byte) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p)
	}

	return d.Sum64()
}
