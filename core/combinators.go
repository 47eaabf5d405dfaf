package core

import (
	"fmt"
)

// SampleN draws n samples from d.
func SampleN(d *Distribution, n int, rng *RNG) ([]Value, error) {
	return d.SampleN(n, rng)
}

// ExpectedValue estimates the mean of d from n samples.  Non-numeric samples
// are ignored; if none are numeric the result is ErrNoNumericData.
func ExpectedValue(d *Distribution, n int, rng *RNG) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("sample count %d: %w", n, ErrInvalidParameter)
	}
	samples, err := d.SampleN(n, rng)
	if err != nil {
		return 0, err
	}
	return Mean(samples)
}

// ExactExpectation computes the mean of a discrete numeric distribution from
// its enumerated outcomes.  Non-numeric outcomes are ignored.
func ExactExpectation(d *Distribution) (float64, error) {
	o, err := d.Enumerate()
	if err != nil {
		return 0, err
	}
	var sum, weight float64
	for _, b := range o.Buckets {
		if f, ok := ToFloat(b.Value); ok {
			sum += f * b.Weight
			weight += b.Weight
		}
	}
	if weight == 0 {
		return 0, ErrNoNumericData
	}
	return sum / weight, nil
}

// Chain samples d, feeds the sample to next and samples the distribution it
// returns.  A non-distribution result is used as is.
func Chain(d *Distribution, name string, next func(Value) (Value, error)) *Distribution {
	if name == "" {
		name = "chain(" + d.Name + ")"
	}
	return &Distribution{Name: name, node: &chained{src: d, next: next}}
}

type chained struct {
	src  *Distribution
	next func(Value) (Value, error)
}

func (c *chained) sample(rng *RNG) (Value, error) {
	v, err := c.src.Sample(rng)
	if err != nil {
		return nil, err
	}
	out, err := c.next(v)
	if err != nil {
		return nil, err
	}
	return draw(out, rng)
}

func (c *chained) enumerate() (*Outcomes[Value], error) {
	src, err := c.src.node.enumerate()
	if err != nil {
		return nil, err
	}
	var out *Outcomes[Value]
	for _, b := range src.Buckets {
		v, err := c.next(b.Value)
		if err != nil {
			return nil, err
		}
		sub, err := outcomesOf(v)
		if err != nil {
			return nil, err
		}
		out = out.Append(sub.Normalized().Scaled(b.Weight))
	}
	return out, nil
}

// Joint samples each distribution in turn and returns the tuple of results.
func Joint(ds ...*Distribution) *Distribution {
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name
	}
	return &Distribution{Name: fmt.Sprintf("joint%v", names), node: &joint{ds: ds}}
}

type joint struct{ ds []*Distribution }

func (j *joint) sample(rng *RNG) (Value, error) {
	elems := make([]Value, len(j.ds))
	for i, d := range j.ds {
		v, err := d.Sample(rng)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return NewTuple(elems...), nil
}

func (j *joint) enumerate() (*Outcomes[Value], error) {
	out := (*Outcomes[[]Value])(nil).Add(1, nil)
	for _, d := range j.ds {
		sub, err := d.node.enumerate()
		if err != nil {
			return nil, err
		}
		out = Product(out, sub, func(prefix []Value, v Value) []Value {
			return append(append([]Value(nil), prefix...), v)
		})
	}
	return MapOutcomes(out, func(vs []Value) Value { return NewTuple(vs...) }), nil
}
