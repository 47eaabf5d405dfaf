package core

import (
	"slices"
)

// Bucket is one weighted outcome.
type Bucket[V any] struct {
	Weight float64
	Value  V
}

// Outcomes is a finite weighted set of values.  Weights are relative; they
// need not sum to one.  A nil *Outcomes is an empty set and is safe to Add to.
type Outcomes[V any] struct {
	Buckets []Bucket[V]
}

func (o *Outcomes[V]) Copy() *Outcomes[V] {
	if o == nil {
		return nil
	}
	return &Outcomes[V]{Buckets: slices.Clone(o.Buckets)}
}

func (o *Outcomes[V]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Buckets)
}

func (o *Outcomes[V]) TotalWeight() (out float64) {
	if o == nil {
		return 0
	}
	for _, b := range o.Buckets {
		out += b.Weight
	}
	return
}

func (o *Outcomes[V]) Add(weight float64, value V) *Outcomes[V] {
	if o == nil {
		o = &Outcomes[V]{}
	}
	o.Buckets = append(o.Buckets, Bucket[V]{weight, value})
	return o
}

// Append adds the buckets of each of rest, unscaled.
func (o *Outcomes[V]) Append(rest ...*Outcomes[V]) *Outcomes[V] {
	for _, another := range rest {
		if another != nil {
			for _, b := range another.Buckets {
				o = o.Add(b.Weight, b.Value)
			}
		}
	}
	return o
}

// Scaled returns a copy with every weight multiplied by factor.
func (o *Outcomes[V]) Scaled(factor float64) *Outcomes[V] {
	out := o.Copy()
	if out == nil {
		return nil
	}
	for i := range out.Buckets {
		out.Buckets[i].Weight *= factor
	}
	return out
}

// Normalized returns a copy whose weights sum to one.  An empty or
// zero-weight set is returned unchanged.
func (o *Outcomes[V]) Normalized() *Outcomes[V] {
	total := o.TotalWeight()
	if total <= 0 {
		return o.Copy()
	}
	return o.Scaled(1 / total)
}

// Filter keeps the buckets that match and reports the weight removed.  The
// kept weights are not renormalized.
func (o *Outcomes[V]) Filter(keep func(b Bucket[V]) bool) (out *Outcomes[V], removed float64) {
	out = &Outcomes[V]{}
	if o == nil {
		return
	}
	for _, b := range o.Buckets {
		if keep(b) {
			out.Buckets = append(out.Buckets, b)
		} else {
			removed += b.Weight
		}
	}
	return
}

// Split partitions the outcomes by matcher.
func (o *Outcomes[V]) Split(matcher func(v V) bool) (matched *Outcomes[V], unmatched *Outcomes[V]) {
	if o != nil {
		for _, b := range o.Buckets {
			if matcher(b.Value) {
				matched = matched.Add(b.Weight, b.Value)
			} else {
				unmatched = unmatched.Add(b.Weight, b.Value)
			}
		}
	}
	return
}

// MapOutcomes applies mapper to every value, keeping weights.
func MapOutcomes[V, U any](o *Outcomes[V], mapper func(v V) U) (out *Outcomes[U]) {
	if o == nil {
		return nil
	}
	for _, b := range o.Buckets {
		out = out.Add(b.Weight, mapper(b.Value))
	}
	return
}

// Product combines every pair of outcomes from a and b with reducer.  The
// result's weights are the products of the normalized input weights.
func Product[V, U, Z any](a *Outcomes[V], b *Outcomes[U], reducer func(V, U) Z) (out *Outcomes[Z]) {
	aw, bw := a.TotalWeight(), b.TotalWeight()
	if aw <= 0 || bw <= 0 {
		return nil
	}
	for _, x := range a.Buckets {
		for _, y := range b.Buckets {
			out = out.Add((x.Weight/aw)*(y.Weight/bw), reducer(x.Value, y.Value))
		}
	}
	return
}

// Merge combines buckets whose values have the same key, summing their
// weights.  The first occurrence of each key keeps its position.
func (o *Outcomes[V]) Merge(key func(V) string) *Outcomes[V] {
	if o == nil {
		return nil
	}
	out := &Outcomes[V]{}
	index := map[string]int{}
	for _, b := range o.Buckets {
		k := key(b.Value)
		if i, ok := index[k]; ok {
			out.Buckets[i].Weight += b.Weight
			continue
		}
		index[k] = len(out.Buckets)
		out.Buckets = append(out.Buckets, b)
	}
	return out
}

// Sample draws one value in proportion to the bucket weights.  ok is false
// when the set is empty or its total weight is zero.
func (o *Outcomes[V]) Sample(rng *RNG) (result V, ok bool) {
	total := o.TotalWeight()
	if o.Len() == 0 || total <= 0 {
		return
	}
	target := rng.Float64() * total
	cumulative := 0.0
	for _, b := range o.Buckets {
		cumulative += b.Weight
		if target < cumulative {
			return b.Value, true
		}
	}
	// rounding can leave target just past the final cumulative weight
	return o.Buckets[len(o.Buckets)-1].Value, true
}

// GetValue returns the value of a single-bucket set.
func (o *Outcomes[V]) GetValue() (result V, ok bool) {
	if o.Len() == 1 {
		return o.Buckets[0].Value, true
	}
	return
}

// Probability returns the normalized weight of the buckets that match.
func (o *Outcomes[V]) Probability(match func(V) bool) float64 {
	total := o.TotalWeight()
	if total <= 0 {
		return 0
	}
	var w float64
	for _, b := range o.Buckets {
		if match(b.Value) {
			w += b.Weight
		}
	}
	return w / total
}
