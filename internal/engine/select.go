package engine

import (
	"github.com/dpshade/zero-edit/internal/errors"
)

// Select picks a position in a list of the given length for one coordinate,
// by reducing CoordHash with the remainder operation. Remainder reduction is
// part of the frozen contract: it is trivially re-derivable in any language,
// unlike rejection sampling.
//
// Returns an INVALID_POOL error when length is not positive.
func Select(seed uint32, index uint64, slot uint32, length int) (int, error) {
	if length <= 0 {
		return 0, errors.InvalidPoolError(length)
	}
	return int(CoordHash(seed, index, slot) % uint32(length)), nil
}
