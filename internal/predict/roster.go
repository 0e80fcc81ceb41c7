package predict

import (
	"fmt"
	"strings"
)

// Roster is the submitted form. Names are indexed by slot (P1 is slot 0).
// Known holds, for ShapeEight, the slots of the five known opponents in the
// order they meet the player.
type Roster struct {
	Names []string `json:"names"`
	Known []int    `json:"known,omitempty"`
}

func (r Roster) clone() Roster {
	return Roster{
		Names: append([]string(nil), r.Names...),
		Known: append([]int(nil), r.Known...),
	}
}

// Validate checks r against shape. Names are trimmed in place.
func (r *Roster) Validate(shape Shape) error {
	if len(r.Names) != shape.Slots() {
		return &ValidationError{
			Field:  "names",
			Reason: fmt.Sprintf("need %d names, got %d", shape.Slots(), len(r.Names)),
		}
	}
	for i, name := range r.Names {
		name = strings.TrimSpace(name)
		if name == "" {
			return &ValidationError{Field: fmt.Sprintf("names[%d]", i), Reason: fmt.Sprintf("P%d is empty", i+1)}
		}
		r.Names[i] = name
	}

	want := shape.KnownSlots()
	if want == 0 {
		if len(r.Known) > 0 {
			return &ValidationError{Field: "known", Reason: "known opponents only apply to the 8-slot roster"}
		}
		return nil
	}
	if len(r.Known) != want {
		return &ValidationError{
			Field:  "known",
			Reason: fmt.Sprintf("need %d known opponents, got %d", want, len(r.Known)),
		}
	}
	used := make(map[int]int, want)
	for i, slot := range r.Known {
		field := fmt.Sprintf("known[%d]", i)
		switch {
		case slot == 0:
			return &ValidationError{Field: field, Reason: "P1 is the player and cannot be an opponent"}
		case slot < 0 || slot >= len(r.Names):
			return &ValidationError{Field: field, Reason: fmt.Sprintf("slot %d does not exist", slot)}
		}
		if prev, dup := used[slot]; dup {
			return &ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("P%d (%s) is already picked for known[%d]", slot+1, r.Names[slot], prev),
			}
		}
		used[slot] = i
	}
	return nil
}
