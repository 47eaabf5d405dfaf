package core

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Distribution is a node in a graph of samplers.  Composite nodes refer to
// their children, so a distribution built from others shares them instead of
// copying.  Samples are never memoized: every call to Sample draws afresh.
type Distribution struct {
	Name string
	node node
}

type node interface {
	sample(rng *RNG) (Value, error)
	// enumerate lists the exact outcomes of a finite discrete node.
	enumerate() (*Outcomes[Value], error)
}

func (*Distribution) Kind() Kind { return KindDist }
func (*Distribution) value()     {}
func (d *Distribution) String() string {
	return "<dist " + d.Name + ">"
}

func (d *Distribution) Sample(rng *RNG) (Value, error) {
	return d.node.sample(rng)
}

// SampleN draws n independent samples.
func (d *Distribution) SampleN(n int, rng *RNG) ([]Value, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample count %d: %w", n, ErrInvalidParameter)
	}
	out := make([]Value, n)
	for i := range out {
		v, err := d.Sample(rng)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Enumerate returns the exact outcome weights of a discrete distribution.
// Continuous nodes, and nodes built over them, return ErrNotEnumerable.
// Equal outcomes are merged.
func (d *Distribution) Enumerate() (*Outcomes[Value], error) {
	o, err := d.node.enumerate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	return o.Merge(keyOf).Normalized(), nil
}

// AsDistribution unwraps v.
func AsDistribution(v Value) (*Distribution, error) {
	if d, ok := v.(*Distribution); ok {
		return d, nil
	}
	return nil, fmt.Errorf("%s: %w", v.Kind(), ErrNotDistribution)
}

// draw samples v when it is a distribution and returns it unchanged otherwise.
func draw(v Value, rng *RNG) (Value, error) {
	if d, ok := v.(*Distribution); ok {
		return d.Sample(rng)
	}
	return v, nil
}

func outcomesOf(v Value) (*Outcomes[Value], error) {
	if d, ok := v.(*Distribution); ok {
		return d.node.enumerate()
	}
	return (*Outcomes[Value])(nil).Add(1, v), nil
}

// --- Primitive ---

// primitive wraps a leaf sampler.  support is set for finite discrete leaves.
type primitive struct {
	draw    func(rng *RNG) Value
	support func() *Outcomes[Value]
}

func (p *primitive) sample(rng *RNG) (Value, error) { return p.draw(rng), nil }

func (p *primitive) enumerate() (*Outcomes[Value], error) {
	if p.support == nil {
		return nil, ErrNotEnumerable
	}
	return p.support(), nil
}

// NewPrimitive builds a leaf distribution from a sampling function.
func NewPrimitive(name string, fn func(rng *RNG) Value) *Distribution {
	return &Distribution{Name: name, node: &primitive{draw: fn}}
}

// --- Constant ---

type constant struct{ v Value }

func (c *constant) sample(*RNG) (Value, error) { return c.v, nil }
func (c *constant) enumerate() (*Outcomes[Value], error) {
	return (*Outcomes[Value])(nil).Add(1, c.v), nil
}

// Constant is the point mass at v.
func Constant(v Value) *Distribution {
	return &Distribution{Name: "constant(" + v.String() + ")", node: &constant{v}}
}

// --- Choice (bet) ---

type choice struct {
	alts    [3]Value
	weights [3]float64
}

func (c *choice) sample(rng *RNG) (Value, error) {
	i := rng.WeightedIndex3(c.weights[0], c.weights[1], c.weights[2])
	return draw(c.alts[i], rng)
}

func (c *choice) enumerate() (out *Outcomes[Value], err error) {
	for i, alt := range c.alts {
		sub, err := outcomesOf(alt)
		if err != nil {
			return nil, err
		}
		out = out.Append(sub.Normalized().Scaled(c.weights[i]))
	}
	return out, nil
}

// Bet picks one of three alternatives with equal probability.  An
// alternative that is itself a distribution is sampled when chosen.
func Bet(a, b, c Value) *Distribution {
	return &Distribution{
		Name: fmt.Sprintf("bet{%s, %s, %s}", a, b, c),
		node: &choice{alts: [3]Value{a, b, c}, weights: [3]float64{1, 1, 1}},
	}
}

// WeightedBet picks an alternative in proportion to its weight.
func WeightedBet(a Value, wa float64, b Value, wb float64, c Value, wc float64) (*Distribution, error) {
	weights := [3]float64{wa, wb, wc}
	if err := validateWeights(weights[:]); err != nil {
		return nil, err
	}
	return &Distribution{
		Name: fmt.Sprintf("bet{%s @ %g, %s @ %g, %s @ %g}", a, wa, b, wb, c, wc),
		node: &choice{alts: [3]Value{a, b, c}, weights: weights},
	}, nil
}

// TernaryBet is uniform over True, False and Unknown.
func TernaryBet() *Distribution {
	return NewTernary()
}

func validateWeights(ws []float64) error {
	total := 0.0
	for _, w := range ws {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weight %g: %w", w, ErrInvalidWeights)
		}
		total += w
	}
	if total <= 0 || math.IsInf(total, 0) {
		return fmt.Errorf("total weight %g: %w", total, ErrInvalidWeights)
	}
	return nil
}

// --- Categorical ---

// Weighted pairs a value with its relative weight.
type Weighted struct {
	Value  Value
	Weight float64
}

type categorical struct {
	choices []Weighted
	cum     []float64
}

func (c *categorical) sample(rng *RNG) (Value, error) {
	return draw(c.choices[searchCumulative(c.cum, rng)].Value, rng)
}

func (c *categorical) enumerate() (out *Outcomes[Value], err error) {
	for _, ch := range c.choices {
		sub, err := outcomesOf(ch.Value)
		if err != nil {
			return nil, err
		}
		out = out.Append(sub.Normalized().Scaled(ch.Weight))
	}
	return out, nil
}

// searchCumulative picks an index from cumulative weights by binary search.
func searchCumulative(cum []float64, rng *RNG) int {
	u := rng.Float64() * cum[len(cum)-1]
	i := sort.SearchFloat64s(cum, u)
	// SearchFloat64s finds the first cum >= u; a draw equal to a boundary
	// belongs to the next bucket, and zero-weight buckets are never chosen
	for i < len(cum)-1 && cum[i] <= u {
		i++
	}
	return i
}

func cumulative(ws []float64) []float64 {
	cum := make([]float64, len(ws))
	floats.CumSum(cum, ws)
	return cum
}

// Categorical picks among any number of weighted choices.
func Categorical(choices []Weighted) (*Distribution, error) {
	if len(choices) == 0 {
		return nil, ErrEmpty
	}
	ws := make([]float64, len(choices))
	for i, c := range choices {
		ws[i] = c.Weight
	}
	if err := validateWeights(ws); err != nil {
		return nil, err
	}
	return &Distribution{
		Name: fmt.Sprintf("categorical(%d)", len(choices)),
		node: &categorical{choices: append([]Weighted(nil), choices...), cum: cumulative(ws)},
	}, nil
}

// --- Mixture ---

type mixture struct {
	comps []*Distribution
	ws    []float64
	cum   []float64
}

func (m *mixture) sample(rng *RNG) (Value, error) {
	return m.comps[searchCumulative(m.cum, rng)].Sample(rng)
}

func (m *mixture) enumerate() (out *Outcomes[Value], err error) {
	for i, d := range m.comps {
		sub, err := d.node.enumerate()
		if err != nil {
			return nil, err
		}
		out = out.Append(sub.Normalized().Scaled(m.ws[i]))
	}
	return out, nil
}

// Mixture samples d1 with probability w1/(w1+w2) and d2 otherwise.
func Mixture(d1 *Distribution, w1 float64, d2 *Distribution, w2 float64) (*Distribution, error) {
	return MixtureN([]*Distribution{d1, d2}, []float64{w1, w2})
}

// MixtureN generalizes Mixture to any number of components.
func MixtureN(comps []*Distribution, ws []float64) (*Distribution, error) {
	if len(comps) == 0 {
		return nil, ErrEmpty
	}
	if len(comps) != len(ws) {
		return nil, fmt.Errorf("%d components, %d weights: %w", len(comps), len(ws), ErrLengthMismatch)
	}
	if err := validateWeights(ws); err != nil {
		return nil, err
	}
	names := make([]string, len(comps))
	for i, c := range comps {
		if c == nil {
			return nil, fmt.Errorf("component %d: %w", i, ErrNotDistribution)
		}
		names[i] = c.Name
	}
	return &Distribution{
		Name: fmt.Sprintf("mixture%v", names),
		node: &mixture{comps: append([]*Distribution(nil), comps...), ws: append([]float64(nil), ws...), cum: cumulative(ws)},
	}, nil
}

// --- Mapped ---

type mapped struct {
	src *Distribution
	fn  func(Value) (Value, error)
}

func (m *mapped) sample(rng *RNG) (Value, error) {
	v, err := m.src.Sample(rng)
	if err != nil {
		return nil, err
	}
	return m.fn(v)
}

func (m *mapped) enumerate() (*Outcomes[Value], error) {
	src, err := m.src.node.enumerate()
	if err != nil {
		return nil, err
	}
	var out *Outcomes[Value]
	for _, b := range src.Buckets {
		v, err := m.fn(b.Value)
		if err != nil {
			return nil, err
		}
		out = out.Add(b.Weight, v)
	}
	return out, nil
}

// Map pushes d through fn.
func Map(d *Distribution, name string, fn func(Value) (Value, error)) *Distribution {
	if name == "" {
		name = "map(" + d.Name + ")"
	}
	return &Distribution{Name: name, node: &mapped{src: d, fn: fn}}
}

// --- Conditioned ---

type conditioned struct {
	src      *Distribution
	pred     func(Value) (bool, error)
	maxTries int
}

func (c *conditioned) sample(rng *RNG) (Value, error) {
	for range c.maxTries {
		v, err := c.src.Sample(rng)
		if err != nil {
			return nil, err
		}
		ok, err := c.pred(v)
		if err != nil {
			return nil, err
		}
		if ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("after %d tries: %w", c.maxTries, ErrConditionUnsatisfied)
}

func (c *conditioned) enumerate() (*Outcomes[Value], error) {
	src, err := c.src.node.enumerate()
	if err != nil {
		return nil, err
	}
	var predErr error
	kept, _ := src.Filter(func(b Bucket[Value]) bool {
		ok, err := c.pred(b.Value)
		if err != nil && predErr == nil {
			predErr = err
		}
		return ok
	})
	if predErr != nil {
		return nil, predErr
	}
	if kept.TotalWeight() <= 0 {
		return nil, ErrConditionUnsatisfied
	}
	return kept, nil
}

// DefaultMaxTries bounds rejection sampling in Condition.
const DefaultMaxTries = 10000

// Condition restricts d to the samples satisfying pred, by rejection.
// maxTries <= 0 uses DefaultMaxTries.
func Condition(d *Distribution, pred func(Value) (bool, error), maxTries int) *Distribution {
	if maxTries <= 0 {
		maxTries = DefaultMaxTries
	}
	return &Distribution{Name: "condition(" + d.Name + ")", node: &conditioned{src: d, pred: pred, maxTries: maxTries}}
}
