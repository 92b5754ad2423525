// Package pipeline implements the chainable unit-of-transform contract used
// by the preprocessing stages: each Unit consumes the previous Unit's output
// together with an accumulated metadata map, and may extend that map for the
// Units that follow it.
package pipeline

// Metadata carries per-invocation context between Units. It is created (or
// cloned) fresh for every Pipeline.Run and discarded when the run completes.
type Metadata map[string]any

// Clone returns a shallow copy. Values are shared; the key set is not.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Unit is a single transform step. Apply returns the replacement data and
// an optional metadata update map; a nil update map leaves the accumulated
// metadata untouched. A Unit must never retain or mutate meta directly —
// all writes go through the returned updates so the pipeline stays the
// single integration point.
type Unit interface {
	Apply(data any, meta Metadata) (any, Metadata, error)
}

// Pipeline is an ordered sequence of Units. A Unit at position i only ever
// observes metadata written by Units at positions before i.
type Pipeline struct {
	units []Unit
}

// New builds a Pipeline from the given Units, applied in order.
func New(units ...Unit) *Pipeline {
	return &Pipeline{units: append([]Unit(nil), units...)}
}

// Run feeds data through every Unit in order. The caller's meta map is
// cloned, so writes during the run are never visible to the caller's copy;
// pass nil to start from an empty map. The first Unit error aborts the run.
func (p *Pipeline) Run(data any, meta Metadata) (any, Metadata, error) {
	run := Metadata{}
	if meta != nil {
		run = meta.Clone()
	}
	for _, u := range p.units {
		var err error
		data, err = convert(u, data, run)
		if err != nil {
			return nil, nil, err
		}
	}
	return data, run, nil
}

// convert invokes one Unit and folds its metadata updates into the
// accumulated map, later keys overriding earlier ones of the same name.
func convert(u Unit, data any, meta Metadata) (any, error) {
	out, updates, err := u.Apply(data, meta)
	if err != nil {
		return nil, err
	}
	for k, v := range updates {
		meta[k] = v
	}
	return out, nil
}
