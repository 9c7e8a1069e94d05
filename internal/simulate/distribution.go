package simulate

import (
	"fmt"
	"math"
	"math/rand"
)

// Distribution is a closed set of sampling distributions for the
// stochastic simulator.
type Distribution interface {
	Sample(r *rand.Rand) float64
	String() string
}

// Normal samples stdDev-scaled Gaussian noise around a mean. A zero
// stdDev collapses to the mean, which makes zero-variance runs
// reproduce the deterministic result exactly.
type Normal struct {
	Mean   float64
	StdDev float64
}

func (n Normal) Sample(r *rand.Rand) float64 {
	if n.StdDev == 0 {
		return n.Mean
	}
	return n.Mean + r.NormFloat64()*n.StdDev
}

func (n Normal) String() string {
	return fmt.Sprintf("normal(%.4g, %.4g)", n.Mean, n.StdDev)
}

// Triangular samples via the inverse-CDF piecewise formula keyed on
// the mode.
type Triangular struct {
	Min  float64
	Max  float64
	Mode float64
}

func (t Triangular) Sample(r *rand.Rand) float64 {
	if t.Max <= t.Min {
		return t.Min
	}
	u := r.Float64()
	cut := (t.Mode - t.Min) / (t.Max - t.Min)
	if u < cut {
		return t.Min + math.Sqrt(u*(t.Max-t.Min)*(t.Mode-t.Min))
	}
	return t.Max - math.Sqrt((1-u)*(t.Max-t.Min)*(t.Max-t.Mode))
}

func (t Triangular) String() string {
	return fmt.Sprintf("triangular(%.4g, %.4g, %.4g)", t.Min, t.Max, t.Mode)
}

// Uniform samples a direct linear scale between min and max.
type Uniform struct {
	Min float64
	Max float64
}

func (u Uniform) Sample(r *rand.Rand) float64 {
	if u.Max <= u.Min {
		return u.Min
	}
	return u.Min + r.Float64()*(u.Max-u.Min)
}

func (u Uniform) String() string {
	return fmt.Sprintf("uniform(%.4g, %.4g)", u.Min, u.Max)
}

// Fixed always returns the same value; deterministic inputs inside a
// stochastic run use it.
type Fixed struct {
	Value float64
}

func (f Fixed) Sample(_ *rand.Rand) float64 { return f.Value }

func (f Fixed) String() string { return fmt.Sprintf("fixed(%.4g)", f.Value) }
