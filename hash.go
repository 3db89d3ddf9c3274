package rhmap

import "math/bits"

// baseSlot reduces a 64-bit hash to a slot index in [0, size) using a
// multiplicative reduction (Lemire's fast alternative to modulo),
// generalized from the 32-bit form used for group selection in
// flier-goutil's arena-swiss-map.go (fastModN) to the full 64-bit
// product via bits.Mul64.
func baseSlot(h uint64, size uint64) uint64 {
	hi, _ := bits.Mul64(h, size)
	return hi
}

// secondaryHash derives the hash fed to the secondary probe from the
// primary hash by rotating it 32 bits, so that the two probe
// sequences are decorrelated without a second independent hash call.
func secondaryHash(h uint64) uint64 {
	return bits.RotateLeft64(h, 32)
}

// fingerprint extracts the 8-bit summary of a hash stored alongside
// metadata for fast SIMD-style matching.
func fingerprint(h uint64) uint8 {
	return uint8(h & 0xFF)
}
