package rhmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackUnpackMeta(t *testing.T) {
	for _, h := range []int{1, 3} {
		for d := 0; d < window; d++ {
			meta := packMeta(h, d)
			gotH, gotD := unpackMeta(meta)
			assert.Equal(t, h, gotH)
			assert.Equal(t, d, gotD)
		}
	}
}

func TestMetaSentinels(t *testing.T) {
	assert.True(t, isEmpty(metaEmpty))
	assert.False(t, isOccupied(metaEmpty))
	assert.True(t, isTombstone(metaTombstone))
	assert.False(t, isOccupied(metaTombstone))

	occ := packMeta(1, 5)
	assert.True(t, isOccupied(occ))
	assert.False(t, isEmpty(occ))
	assert.False(t, isTombstone(occ))
}

func TestEffectiveDistanceOrdering(t *testing.T) {
	// Any slot placed by the secondary hash (h=3) outranks any slot
	// placed by the primary hash (h=1), regardless of distance.
	h1max := packMeta(1, window-1)
	h2min := packMeta(3, 0)
	assert.Less(t, effectiveDistance(h1max), effectiveDistance(h2min))
}

func TestOpportunisticEmptyThreshold(t *testing.T) {
	// h=1 bytes below the window's max distance are below 0x5F.
	assert.Less(t, packMeta(1, window-2), uint8(0x5F))
	// h=1 at max distance is exactly the threshold, not below it.
	assert.Equal(t, uint8(0x5F), packMeta(1, window-1))
	// Any h=3 byte is above the threshold.
	assert.Greater(t, packMeta(3, 0), uint8(0x5F))
}
