package pipeline

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/helio-data/sunprep/internal/cube"
)

// Distribute applies a sub-pipeline independently to every element of a
// slice input and concatenates the per-element results along the leading
// axis, in input order. Each element runs with a private clone of the
// caller's metadata, so sibling runs never observe each other's writes.
type Distribute struct {
	Units []Unit

	// MaxConcurrent bounds the number of element runs in flight.
	// Zero means one goroutine per element.
	MaxConcurrent int
}

// Apply implements Unit. Element runs execute concurrently but the output
// ordering always matches input ordering, never completion ordering.
func (d *Distribute) Apply(data any, meta Metadata) (any, Metadata, error) {
	elems, err := elements(data)
	if err != nil {
		return nil, nil, err
	}
	if len(elems) == 0 {
		return nil, nil, fmt.Errorf("distribute: empty input sequence")
	}

	sub := New(d.Units...)
	results := make([]*cube.Cube, len(elems))
	errs := make([]error, len(elems))

	sem := make(chan struct{}, concurrency(d.MaxConcurrent, len(elems)))
	var wg sync.WaitGroup
	for i, elem := range elems {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, elem any) {
			defer wg.Done()
			defer func() { <-sem }()
			out, _, err := sub.Run(elem, meta)
			if err != nil {
				errs[i] = fmt.Errorf("distribute element %d: %w", i, err)
				return
			}
			c, ok := out.(*cube.Cube)
			if !ok {
				errs[i] = fmt.Errorf("distribute element %d: want *cube.Cube result, got %T", i, out)
				return
			}
			results[i] = c
		}(i, elem)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	out, err := cube.Concat(results)
	if err != nil {
		return nil, nil, fmt.Errorf("distribute: %w", err)
	}
	return out, nil, nil
}

func concurrency(limit, n int) int {
	if limit <= 0 || limit > n {
		return n
	}
	return limit
}

// elements converts any slice input into []any without copying elements.
func elements(data any) ([]any, error) {
	if elems, ok := data.([]any); ok {
		return elems, nil
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("distribute: want a slice input, got %T", data)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
