package rhmap

import "errors"

// ErrOutOfMemory is returned when an allocation needed to grow or
// initially size a Map fails. The Map is left unmodified.
var ErrOutOfMemory = errors.New("rhmap: allocation failed")

// ErrCapacityOverflow is returned when a requested capacity, combined
// with the configured grow_at_percent, overflows the size arithmetic
// used to compute the backing array length.
var ErrCapacityOverflow = errors.New("rhmap: requested capacity overflows size arithmetic")

// ErrInvalidGrowAtPercent is returned at construction time when
// WithGrowAtPercent is given a value outside [1,100].
var ErrInvalidGrowAtPercent = errors.New("rhmap: grow_at_percent must be in [1,100]")
