// Package semiring defines the algebraic structure that parameterizes
// matrix multiplication: a pair of identities (zero, one) and a pair of
// binary operations (oplus, otimes), plus four built-in instances (Boolean,
// Tropical, Counting, Probability).
//
// Matrix multiplication under a semiring generalizes the familiar
// (+, ·) dot product: (A (x) B)[i,j] = (+)_k (A[i,k] (*) B[k,j]). Swapping
// in a different (oplus, otimes, zero) turns the same loop shape into
// reachability, shortest paths, path counting, or independent-event
// probability — see matrix.MultiplySemiring.
//
// The four axioms below (associativity of oplus/otimes, distributivity of
// otimes over oplus, zero as the oplus identity and otimes annihilator, one
// as the otimes identity) are documented, not runtime-checked: algorithm
// correctness depends on them holding for any Semiring value passed in, but
// verifying them at runtime is outside this package's job.
package semiring

import "math"

// Semiring is a record of four operations plus two identities, used as a
// plain function parameter rather than a family of types.
type Semiring struct {
	Name   string
	Zero   float64
	One    float64
	Oplus  func(a, b float64) float64
	Otimes func(a, b float64) float64
}

// boolOf/floatOfBool convert between float64-encoded booleans (0/1) and
// Go bools, so Boolean can share Semiring's float64 operand type with the
// other built-ins instead of requiring a parallel bool-typed variant.
func boolOf(f float64) bool   { return f != 0 }
func floatOfBool(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Boolean is the reachability semiring: OR as oplus, AND as otimes, false
// as zero, true as one. Matrix entries are expected to be 0/1-encoded.
var Boolean = Semiring{
	Name: "boolean",
	Zero: 0,
	One:  1,
	Oplus: func(a, b float64) float64 {
		return floatOfBool(boolOf(a) || boolOf(b))
	},
	Otimes: func(a, b float64) float64 {
		return floatOfBool(boolOf(a) && boolOf(b))
	},
}

// tropicalInfinity is the large finite sentinel used in place of a true
// +Inf so that Oplus/Otimes stay ordinary float64 arithmetic without NaN
// propagation through 0 * Inf during the zero-filled parts of a dense
// matrix.
const tropicalInfinity = 1e10

// Tropical is the min-plus semiring used for shortest-path computation:
// min as oplus, + as otimes, +infinity as zero, 0 as one.
var Tropical = Semiring{
	Name: "tropical",
	Zero: tropicalInfinity,
	One:  0,
	Oplus: func(a, b float64) float64 {
		return math.Min(a, b)
	},
	Otimes: func(a, b float64) float64 {
		if a >= tropicalInfinity || b >= tropicalInfinity {
			return tropicalInfinity
		}
		return a + b
	},
}

// Counting is the ordinary (+, ·) semiring used for path enumeration: the
// same arithmetic as standard matrix multiplication, so MultiplySemiring
// with Counting reproduces matrix.Multiply exactly.
var Counting = Semiring{
	Name:   "counting",
	Zero:   0,
	One:    1,
	Oplus:  func(a, b float64) float64 { return a + b },
	Otimes: func(a, b float64) float64 { return a * b },
}

// Probability is the independent-event semiring: oplus combines two
// independent probabilities of "at least one path" (a + b - a*b), otimes
// multiplies probabilities along a path.
var Probability = Semiring{
	Name: "probability",
	Zero: 0.0,
	One:  1.0,
	Oplus: func(a, b float64) float64 {
		return a + b - a*b
	},
	Otimes: func(a, b float64) float64 {
		return a * b
	},
}

// New builds a custom semiring from user-supplied operations and
// identities. Correctness of any algorithm run against it depends on the
// caller's oplus/otimes actually satisfying the semiring axioms; this
// constructor does not check that.
func New(name string, zero, one float64, oplus, otimes func(a, b float64) float64) Semiring {
	return Semiring{Name: name, Zero: zero, One: one, Oplus: oplus, Otimes: otimes}
}
