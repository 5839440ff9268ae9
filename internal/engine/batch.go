package engine

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
)

// ComposeRange generates count prompts for the consecutive indices
// startIndex, startIndex+1, ..., startIndex+count-1, returned in that order.
//
// Each index is independent, so composition fans out across goroutines;
// results are written into their index position, which preserves order
// regardless of completion order. Returns an INVALID_RANGE error when count
// is less than 1.
func ComposeRange(profile *models.Profile, seed uint32, startIndex uint64, count int, prefix, suffix string) ([]string, error) {
	if count < 1 {
		return nil, errors.InvalidRangeError(count)
	}

	results := make([]string, count)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			prompt, err := Compose(profile, seed, startIndex+uint64(i), prefix, suffix)
			if err != nil {
				return err
			}
			results[i] = prompt
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
