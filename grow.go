package rhmap

// grow doubles the backing size (or allocates the initial window-sized
// table from empty) and reinserts every live key. Per spec, size' =
// max(window, 2*size). If the doubled size still can't fit every key
// without a probe failure - an unlucky hash distribution rather than
// true memory pressure - it doubles again rather than giving up.
func (m *Map[K, V]) grow() error {
	newSize := 2 * m.size
	if newSize < window {
		newSize = window
	}
	old := *m
	for {
		if err := m.allocate(newSize); err != nil {
			*m = old
			return err
		}
		ok := true
		old.Iterate(func(key K, val V) bool {
			if !m.tryInsertNewKey(key, val) {
				ok = false
				return false
			}
			return true
		})
		if ok {
			return nil
		}
		newSize *= 2
	}
}
