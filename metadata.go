package rhmap

// window is the fixed probing window width W: the maximum in-window
// distance any occupied slot may have from its base slot, and the
// width of a single SIMD-style metadata/fingerprint scan.
const window = 32

// Metadata byte layout (occupied slots):
//
//	bit 7-6: hash-function index h, encoded as 0b01 (h=1) or 0b11 (h=3)
//	bit 5:   unused
//	bits 4-0: in-window distance d, 0..window-1
//
// Empty is 0x00, sorting below every occupied byte. Tombstone is 0x80,
// sorting between the h=1 range (0x40-0x5F) and the h=3 range
// (0xC0-0xDF) - but effectiveDistance and the eviction chain only ever
// compare occupied bytes against each other, so a tombstone never
// takes part in a distance comparison; it is simply a vacancy, like
// empty, as far as insertion and lookup are concerned.
const (
	metaEmpty     uint8 = 0x00
	metaTombstone uint8 = 0x80

	h1Tag uint8 = 0x40 // 0b01 << 6
	h2Tag uint8 = 0xC0 // 0b11 << 6

	distMask uint8 = 0x1F
)

// packMeta encodes a (hashFn, distance) pair into a metadata byte.
// hashFn must be 1 or 3; distance must be in [0, window-1].
func packMeta(hashFn int, distance int) uint8 {
	var tag uint8
	if hashFn == 1 {
		tag = h1Tag
	} else {
		tag = h2Tag
	}
	return tag | uint8(distance)&distMask
}

// unpackMeta decodes an occupied metadata byte into its hash-function
// index (1 or 3) and in-window distance.
func unpackMeta(meta uint8) (hashFn int, distance int) {
	if meta&h2Tag == h2Tag {
		hashFn = 3
	} else {
		hashFn = 1
	}
	return hashFn, int(meta & distMask)
}

func isEmpty(meta uint8) bool     { return meta == metaEmpty }
func isTombstone(meta uint8) bool { return meta == metaTombstone }
func isOccupied(meta uint8) bool  { return meta != metaEmpty && meta != metaTombstone }

// effectiveDistance returns (h*window)+d for an occupied metadata
// byte. Under this ordering any slot placed by the secondary hash
// (h=3) outranks any slot placed by the primary hash (h=1), regardless
// of in-window distance. The eviction chain in insertIntoWindow does
// not use it: it compares in-window distances alone.
func effectiveDistance(meta uint8) int {
	h, d := unpackMeta(meta)
	return h*window + d
}
