package rhmap

// Rehash clears accumulated tombstones and repacks every live entry,
// entirely within the existing dst/fp/kv arrays - no allocation and no
// change of backing size. Put triggers it automatically once
// tombstones >= size/4; exposed so a caller that knows it just ran a
// large batch of deletes can reclaim the dead tombstones eagerly
// instead of waiting for the next Put to notice.
func (m *Map[K, V]) Rehash() {
	m.rehash()
}

// rehash walks the table left to right exactly once. A tombstone is
// simply cleared to empty - it carries no payload to relocate. An
// occupied slot is pulled out and reinserted through the normal
// placement path, which puts it in the first open slot of its windows:
// its old slot or one freed earlier in the walk. len and tombstones
// are adjusted slot by slot, so an entry placed ahead of the walk and
// pulled out again when the walk reaches it is counted once. Because
// every relocation goes through placeSlot/tryInsertNewKey against
// these same backing arrays, this never allocates - unlike grow, which
// is the only operation permitted to.
func (m *Map[K, V]) rehash() {
	size := int(m.size)
	for i := 0; i < size; i++ {
		meta := m.dst[i]
		switch {
		case isTombstone(meta):
			m.tombstones--
			m.writeMeta(i, metaEmpty)
			m.writeFp(i, 0)
		case isOccupied(meta):
			key, val := m.kv[i].key, m.kv[i].val
			var zeroK K
			var zeroV V
			m.writeMeta(i, metaEmpty)
			m.writeFp(i, 0)
			m.kv[i] = slot[K, V]{key: zeroK, val: zeroV}
			m.len--
			m.tryInsertNewKey(key, val)
		}
	}
}
