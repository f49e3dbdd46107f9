// Package dice provides the randomness abstraction for the SpaceJourney rules
// engine: injectable sources, dice expressions and a logged roller.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "1d4+1"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns an audit string in the format "1d4+1 → [3] +1 = 4".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Expression is a dice expression ready to be rolled.
//
// Invariant: Count >= 1 and Sides >= 1.
type Expression struct {
	Raw      string // canonical or original text
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// Min returns the smallest total the expression can produce.
func (e Expression) Min() int { return e.Count + e.Modifier }

// Max returns the largest total the expression can produce.
func (e Expression) Max() int { return e.Count*e.Sides + e.Modifier }

// Uniform returns a one-die expression whose total is uniform over
// [lo, hi]. Inverted bounds are swapped.
//
// Postcondition: Min() == min(lo, hi) and Max() == max(lo, hi).
func Uniform(lo, hi int) Expression {
	if hi < lo {
		lo, hi = hi, lo
	}
	sides := hi - lo + 1
	mod := lo - 1
	return Expression{
		Raw:      fmt.Sprintf("1d%d%+d", sides, mod),
		Count:    1,
		Sides:    sides,
		Modifier: mod,
	}
}

// Source is the randomness provider for every draw the engine makes.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
