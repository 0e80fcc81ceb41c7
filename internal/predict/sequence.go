package predict

import (
	"fmt"
	"math/rand"

	"github.com/zyren-ai/zyren/internal/engine"
)

// BuildCycles derives the two mode cycles from a validated roster. The only
// randomness is one shuffle of the 7-slot remainder, shared by both modes.
func BuildCycles(shape Shape, roster Roster, r *rand.Rand) (Cycle, Cycle, error) {
	entries := make([]Entry, len(roster.Names))
	for i, name := range roster.Names {
		entries[i] = Entry{Slot: i, Name: name}
	}

	switch shape {
	case ShapeSeven:
		a, b := leadingCycles(entries[5], entries[6], entries[:5], r)
		return a, b, nil
	case ShapeEight:
		fixed := make([]Entry, 0, len(roster.Known))
		used := make(map[int]bool, len(roster.Known))
		for _, slot := range roster.Known {
			fixed = append(fixed, entries[slot])
			used[slot] = true
		}
		var residual []Entry
		for _, e := range entries[1:] {
			if !used[e.Slot] {
				residual = append(residual, e)
			}
		}
		if len(residual) != 2 {
			return nil, nil, fmt.Errorf("8-slot roster left %d residual opponents, want 2", len(residual))
		}
		a, b := trailingCycles(fixed, residual[0], residual[1])
		return a, b, nil
	}
	return nil, nil, fmt.Errorf("unsupported roster shape %d", int(shape))
}

// leadingCycles puts the anchors first: A=[a,b,rest...], B=[b,a,rest...] with
// the same shuffled rest.
func leadingCycles(a, b Entry, remainder []Entry, r *rand.Rand) (Cycle, Cycle) {
	rest := engine.Shuffle(r, remainder)
	cycleA := make(Cycle, 0, len(rest)+2)
	cycleA = append(cycleA, a, b)
	cycleA = append(cycleA, rest...)
	cycleB := make(Cycle, 0, len(rest)+2)
	cycleB = append(cycleB, b, a)
	cycleB = append(cycleB, rest...)
	return cycleA, cycleB
}

// trailingCycles appends the residual pair after the fixed order, swapped in B.
func trailingCycles(fixed []Entry, a, b Entry) (Cycle, Cycle) {
	cycleA := make(Cycle, 0, len(fixed)+2)
	cycleA = append(cycleA, fixed...)
	cycleA = append(cycleA, a, b)
	cycleB := make(Cycle, 0, len(fixed)+2)
	cycleB = append(cycleB, fixed...)
	cycleB = append(cycleB, b, a)
	return cycleA, cycleB
}
