// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package canonical

import "strconv"

// Accumulator seeds and mixing multipliers of the 53-bit hash.
const (
	seed1 uint32 = 0xdeadbeef
	seed2 uint32 = 0x41c6ce57

	mulByte1 uint32 = 2654435761
	mulByte2 uint32 = 1597334677
	mulFold1 uint32 = 2246822507
	mulFold2 uint32 = 3266489909

	mask21 uint64 = 1<<21 - 1
)

// HashBytes returns a 53-bit, base-36 content hash of data.
//
// It is deterministic across processes and sensitive to any byte change,
// but it is not cryptographic and must only be used as an equality proxy.
func HashBytes(data []byte) string {
	h1, h2 := seed1, seed2
	for _, b := range data {
		h1 = (h1 ^ uint32(b)) * mulByte1
		h2 = (h2 ^ uint32(b)) * mulByte2
	}

	h1 = (h1 ^ (h1 >> 16)) * mulFold1
	h1 ^= (h2 ^ (h2 >> 13)) * mulFold2
	h2 = (h2 ^ (h2 >> 16)) * mulFold1
	h2 ^= (h1 ^ (h1 >> 13)) * mulFold2

	combined := (uint64(h2)&mask21)<<32 | uint64(h1)
	return strconv.FormatUint(combined, 36)
}

// Hash returns the content hash of v's canonical form.
func Hash(v any) string {
	return HashBytes([]byte(Canonicalize(v)))
}
