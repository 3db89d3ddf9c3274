package rhmap

// slot holds one key/value pair. Kept as a plain struct slice (not a
// packed/union layout) the same way schraf's FixedBlockMap stores its
// values alongside the control array — metadata and fingerprint arrays
// carry the SIMD-relevant bytes, kv carries the payload.
type slot[K any, V any] struct {
	key K
	val V
}

// Map is an open-addressing hash table combining Robin-Hood hashing
// with 2-choice hashing over fixed-width W=32 probing windows. dst and
// fp both carry a window-byte mirror tail (I4): for any idx in
// [0, size), the window dst[idx:idx+window] is always a full,
// correctly wrapped read with no branch on wraparound. kv is not
// mirrored; idx must be reduced through wrapIndex before touching it.
type Map[K any, V any] struct {
	ctx Context[K]

	dst []uint8         // metadata byte per slot, length size+window
	fp  []uint8         // hash fingerprint per slot, length size+window
	kv  []slot[K, V]    // key/value payload, length size

	size uint64 // backing slot count, always >= window

	len        int
	tombstones int

	growAtPercent int
	growAt        int // len threshold that triggers grow()
}

// Option configures a Map at construction time.
type Option[K any, V any] func(*Map[K, V])

// WithGrowAtPercent sets the load factor, as a percentage of capacity,
// at which Put triggers a grow. Must be in [1,100]; with 100 (the
// default) the load threshold is the full capacity, and a table that
// reaches it serves as a minimal perfect hash function over its live
// key set. Put places a new key only in an open slot of the key's two
// windows; when neither window has one, Put grows the table even below
// the threshold, so a table is not guaranteed to reach full load.
func WithGrowAtPercent[K any, V any](percent int) Option[K, V] {
	return func(m *Map[K, V]) {
		m.growAtPercent = percent
	}
}

// New constructs an empty Map with the minimum backing size.
func New[K any, V any](ctx Context[K], opts ...Option[K, V]) (*Map[K, V], error) {
	return WithCapacity[K, V](ctx, window, opts...)
}

// WithCapacity constructs an empty Map with at least the given backing
// slot capacity (rounded up to window if smaller).
func WithCapacity[K any, V any](ctx Context[K], capacity int, opts ...Option[K, V]) (*Map[K, V], error) {
	m := &Map[K, V]{ctx: ctx, growAtPercent: 100}
	for _, opt := range opts {
		opt(m)
	}
	if m.growAtPercent < 1 || m.growAtPercent > 100 {
		return nil, ErrInvalidGrowAtPercent
	}
	size := uint64(capacity)
	if capacity < 0 {
		size = 0
	}
	if size < window {
		size = window
	}
	if err := m.allocate(size); err != nil {
		return nil, err
	}
	return m, nil
}

// ForLen constructs an empty Map sized so that expectedLen items fit at
// or under the configured grow_at_percent without an immediate grow.
func ForLen[K any, V any](ctx Context[K], expectedLen int, opts ...Option[K, V]) (*Map[K, V], error) {
	m := &Map[K, V]{ctx: ctx, growAtPercent: 100}
	for _, opt := range opts {
		opt(m)
	}
	if m.growAtPercent < 1 || m.growAtPercent > 100 {
		return nil, ErrInvalidGrowAtPercent
	}
	if expectedLen < 0 {
		expectedLen = 0
	}
	size, err := sizeForLen(uint64(expectedLen), m.growAtPercent)
	if err != nil {
		return nil, err
	}
	if size < window {
		size = window
	}
	if err := m.allocate(size); err != nil {
		return nil, err
	}
	return m, nil
}

// sizeForLen returns the smallest backing size that holds expectedLen
// items without exceeding growAtPercent load.
func sizeForLen(expectedLen uint64, growAtPercent int) (uint64, error) {
	if expectedLen == 0 {
		return window, nil
	}
	if expectedLen > (^uint64(0))/100 {
		return 0, ErrCapacityOverflow
	}
	return (expectedLen*100 + uint64(growAtPercent) - 1) / uint64(growAtPercent), nil
}

// allocate replaces the Map's backing storage with fresh, fully empty
// arrays of the given size and resets len/tombstones/growAt. Recovers
// from the runtime panic make() raises on an oversized length, the
// same guard schraf's Grow applies around its own allocation.
func (m *Map[K, V]) allocate(size uint64) (err error) {
	if size > (^uint64(0))-window {
		return ErrCapacityOverflow
	}
	defer func() {
		if r := recover(); r != nil {
			err = ErrOutOfMemory
		}
	}()
	total := size + window
	m.dst = make([]uint8, total)
	m.fp = make([]uint8, total)
	m.kv = make([]slot[K, V], size)
	m.size = size
	m.len = 0
	m.tombstones = 0
	m.growAt = int(size * uint64(m.growAtPercent) / 100)
	if m.growAt < 1 {
		m.growAt = 1
	}
	return nil
}

// Len returns the number of live key/value pairs.
func (m *Map[K, V]) Len() int { return m.len }

// Capacity returns the current backing slot count.
func (m *Map[K, V]) Capacity() int { return int(m.size) }

// wrapIndex reduces an absolute window position (which may run past
// size into the mirror tail) back into [0, size).
func wrapIndex(i int, size uint64) int {
	if uint64(i) >= size {
		return i - int(size)
	}
	return i
}

// writeMeta sets the metadata byte at idx, keeping the mirror tail
// (dst[size:size+window] == dst[0:window]) in sync.
func (m *Map[K, V]) writeMeta(idx int, meta uint8) {
	m.dst[idx] = meta
	if idx < window {
		m.dst[idx+int(m.size)] = meta
	}
}

// writeFp sets the fingerprint byte at idx, keeping its mirror tail in
// sync the same way writeMeta does for dst.
func (m *Map[K, V]) writeFp(idx int, fp uint8) {
	m.fp[idx] = fp
	if idx < window {
		m.fp[idx+int(m.size)] = fp
	}
}

// placeSlot writes a new occupant into idx: metadata, fingerprint, and
// payload. Callers are responsible for len and tombstone bookkeeping -
// placeSlot is also used mid-chain to swap a Robin-Hood eviction into
// an already-occupied slot, which must not change len.
func (m *Map[K, V]) placeSlot(idx int, hashFn int, dist int, fp uint8, key K, val V) {
	m.writeMeta(idx, packMeta(hashFn, dist))
	m.writeFp(idx, fp)
	m.kv[idx] = slot[K, V]{key: key, val: val}
}

// lookupWindow scans the window starting at slot (base slot for
// hashFn) for key. A candidate lane must match both the exact
// distance ramp for hashFn (eqWindow against buildExpectedDst) and the
// fingerprint byte before Context.Equal is even consulted.
//
// Every candidate lane in the window is checked: the scan takes no
// Robin-Hood early exit, so a lane holding a smaller stored distance,
// an empty byte or a tombstone does not end it.
func (m *Map[K, V]) lookupWindow(slot int, hashFn int, fp uint8, key K) (int, bool) {
	expected := buildExpectedDst(hashFn)
	candidates := eqWindow(m.dst, slot, expected) & eqFingerprint(m.fp, slot, fp)
	for candidates != 0 {
		i := firstSet(candidates)
		candidates &^= 1 << uint(i)
		idx := wrapIndex(slot+i, m.size)
		if m.ctx.Equal(m.kv[idx].key, key) {
			return idx, true
		}
	}
	return 0, false
}

// lookupIndex finds key's slot index by scanning the primary window,
// then the secondary window.
func (m *Map[K, V]) lookupIndex(key K) (int, bool) {
	h := m.ctx.Hash(key)
	fp := fingerprint(h)
	base1 := baseSlot(h, m.size)
	if idx, ok := m.lookupWindow(int(base1), 1, fp, key); ok {
		return idx, true
	}
	base2 := baseSlot(secondaryHash(h), m.size)
	return m.lookupWindow(int(base2), 3, fp, key)
}

// Get returns the value stored for key, if present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	idx, ok := m.lookupIndex(key)
	if !ok {
		var zero V
		return zero, false
	}
	return m.kv[idx].val, true
}

// GetIndex returns key's current slot index, if present. At 100% load
// the index returned is stable and unique across the live key set,
// making the Map double as a minimal perfect hash function.
func (m *Map[K, V]) GetIndex(key K) (int, bool) {
	return m.lookupIndex(key)
}

// canMarkEmpty reports whether the slot about to be vacated can be
// marked fully empty (0x00) instead of left as a tombstone. The
// opportunistic-empty rule requires the *whole* window dst[idx:idx+
// window] to be below 0x5F, not just idx itself: any lane in it holding
// a tombstone, an h=3 occupant, or an h=1 occupant at the window's
// maximum distance keeps idx a tombstone. Checking only idx would mark
// slots empty that the window-wide scan would still require as a
// tombstone.
func (m *Map[K, V]) canMarkEmpty(idx int) bool {
	for i := 0; i < window; i++ {
		if m.dst[idx+i] >= 0x5F {
			return false
		}
	}
	return true
}

// Remove deletes key, if present, and reports whether it was found.
func (m *Map[K, V]) Remove(key K) bool {
	idx, ok := m.lookupIndex(key)
	if !ok {
		return false
	}
	var zeroK K
	var zeroV V
	m.kv[idx] = slot[K, V]{key: zeroK, val: zeroV}
	if m.canMarkEmpty(idx) {
		m.writeMeta(idx, metaEmpty)
	} else {
		m.writeMeta(idx, metaTombstone)
		m.tombstones++
	}
	m.writeFp(idx, 0)
	m.len--
	return true
}

// Iterate calls fn for every live key/value pair, in slot order.
// Iteration stops early if fn returns false. Implemented as a windowed
// scan using the window scanner's empty and tombstone masks, skipping
// whole empty stretches rather than testing one byte at a time.
func (m *Map[K, V]) Iterate(fn func(key K, val V) bool) {
	size := int(m.size)
	for i := 0; i < size; {
		avail := window
		if size-i < avail {
			avail = size - i
		}
		vacant := emptyWindow(m.dst, i) | tombstoneWindow(m.dst, i)
		mask := ^vacant
		for mask != 0 {
			b := firstSet(mask)
			mask &^= 1 << uint(b)
			if b >= avail {
				break
			}
			idx := i + b
			if !fn(m.kv[idx].key, m.kv[idx].val) {
				return
			}
		}
		i += avail
	}
}
