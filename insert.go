package rhmap

// Put inserts or updates the value for key. It returns an error only
// when growing the backing storage was required and the allocation
// failed; the Map is left unmodified in that case.
func (m *Map[K, V]) Put(key K, val V) error {
	if idx, ok := m.lookupIndex(key); ok {
		m.kv[idx].val = val
		return nil
	}
	for {
		if m.tombstones >= int(m.size)/4 {
			m.rehash()
		}
		if m.len >= m.growAt {
			if err := m.grow(); err != nil {
				return err
			}
			continue
		}
		if m.tryInsertNewKey(key, val) {
			return nil
		}
		// Both probe windows ran out of room for this key despite
		// being under the configured load factor - an unlucky hash
		// distribution. Grow and retry rather than fail the Put.
		if err := m.grow(); err != nil {
			return err
		}
	}
}

// tryInsertNewKey places a key known not to already be present, trying
// the primary window first and falling back to the secondary window.
// Below grow_at_percent it takes the first open slot; at or above it,
// it runs the Robin-Hood eviction chain instead. Put, grow and rehash
// all call it while len is below grow_at_percent, so they always get
// the first-open-slot placement.
func (m *Map[K, V]) tryInsertNewKey(key K, val V) bool {
	h := m.ctx.Hash(key)
	fp := fingerprint(h)
	preferEmpty := m.len < m.growAt

	base1 := baseSlot(h, m.size)
	if m.insertIntoWindow(int(base1), 1, fp, key, val, preferEmpty) {
		return true
	}
	base2 := baseSlot(secondaryHash(h), m.size)
	return m.insertIntoWindow(int(base2), 3, fp, key, val, preferEmpty)
}

// insertIntoWindow attempts to place (key, val) somewhere in the
// window [slot, slot+window) belonging to hashFn.
//
// With preferEmpty, it takes the first open slot and stops - cheap,
// and sufficient while the table has slack. On the primary pass
// (hashFn == 1) only a truly empty slot qualifies; a tombstone is only
// a valid placement target on the secondary pass (hashFn == 3), which
// runs second and so only reuses a tombstone once the primary window
// has already failed to find the key an empty home.
//
// Otherwise it runs a Robin-Hood eviction chain: at each position it
// compares the carried item's own distance-from-its-base against the
// resident's stored distance and evicts whichever of the two has
// traveled less far from home, carrying the loser onward. The two
// distances are comparable even when the carried item and the resident
// were placed by different hash functions, since "distance from own
// base" is a hash-function-independent fairness metric - and an
// evicted resident's next candidate slot is always physically idx+1,
// regardless of which hash function it was placed by, because
// base+dist+1 == idx+1 by definition. The first eviction in a chain
// uses strict "carried traveled farther" (cdist > d); every eviction
// after that uses the inclusive form (cdist >= d) - this has been
// measured to reduce branch mispredictions and shifts older entries
// outward rather than letting a long chain of exact ties all refuse to
// move. The chain fails if the carried item's distance would reach
// window, or if the scan reaches slot+window without finding a home.
func (m *Map[K, V]) insertIntoWindow(slot int, hashFn int, fp uint8, key K, val V, preferEmpty bool) bool {
	if preferEmpty {
		for i := 0; i < window; i++ {
			idx := wrapIndex(slot+i, m.size)
			meta := m.dst[idx]
			if isEmpty(meta) {
				m.placeSlot(idx, hashFn, i, fp, key, val)
				m.len++
				return true
			}
			if hashFn == 3 && isTombstone(meta) {
				m.tombstones--
				m.placeSlot(idx, hashFn, i, fp, key, val)
				m.len++
				return true
			}
		}
		return false
	}

	ck, cv, cfp, chash, cdist := key, val, fp, hashFn, 0
	evicted := false
	for i := 0; i < window; i++ {
		if cdist >= window {
			return false
		}
		idx := wrapIndex(slot+i, m.size)
		meta := m.dst[idx]
		if isEmpty(meta) {
			m.placeSlot(idx, chash, cdist, cfp, ck, cv)
			m.len++
			return true
		}
		if isTombstone(meta) {
			if hashFn == 3 {
				m.tombstones--
				m.placeSlot(idx, chash, cdist, cfp, ck, cv)
				m.len++
				return true
			}
		} else {
			h, d := unpackMeta(meta)
			displaces := cdist > d
			if evicted {
				displaces = cdist >= d
			}
			if displaces {
				evK, evV := m.kv[idx].key, m.kv[idx].val
				evFp := m.fp[idx]
				m.placeSlot(idx, chash, cdist, cfp, ck, cv)
				ck, cv, cfp, chash, cdist = evK, evV, evFp, h, d
				evicted = true
			}
		}
		cdist++
	}
	return false
}
