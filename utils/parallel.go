package utils

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// ParallelFactor controls the max level of parallelization.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
}

// OrderedFunc evaluates work item i and reports whether it is a hit.
type OrderedFunc func(ctx context.Context, i int) (bool, error)

type orderedResult struct {
	found bool
	err   error
}

// FirstInOrder evaluates items 0 through total-1 and returns the index of the lowest item that is a hit,
// or -1 if there is none. Items are evaluated in windows of `workers` items at a time; the outcome is the
// same as evaluating them one after the other: an error from an item ends the search only if no lower
// item was a hit. workers below 1 means ParallelFactor.
func FirstInOrder(ctx context.Context, total, workers int, f OrderedFunc) (int, error) {
	if workers < 1 {
		workers = ParallelFactor
	}
	if workers == 1 {
		for i := 0; i < total; i++ {
			if err := ctx.Err(); err != nil {
				return -1, err
			}
			found, err := f(ctx, i)
			if err != nil {
				return -1, errors.Wrapf(err, "item %d", i)
			}
			if found {
				return i, nil
			}
		}
		return -1, nil
	}

	results := make([]orderedResult, workers)
	for start := 0; start < total; start += workers {
		if err := ctx.Err(); err != nil {
			return -1, err
		}
		end := start + workers
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			slot := i - start
			results[slot] = orderedResult{}
			wg.Add(1)
			// wg.Done is not deferred so a panicking item records its error before the window is read
			utils.PanicCapturingGoWithCallback(func() {
				found, err := f(ctx, i)
				results[slot] = orderedResult{found, err}
				wg.Done()
			}, func(thePanic interface{}) {
				results[slot] = orderedResult{err: fmt.Errorf("got panic evaluating item %d: %v", i, thePanic)}
				wg.Done()
			})
		}
		wg.Wait()

		for i := start; i < end; i++ {
			res := results[i-start]
			if res.err != nil {
				return -1, errors.Wrapf(res.err, "item %d", i)
			}
			if res.found {
				return i, nil
			}
		}
	}
	return -1, nil
}
