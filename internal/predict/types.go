package predict

import (
	"fmt"
	"strings"

	"github.com/zyren-ai/zyren/internal/engine"
)

const (
	// CreepSentinel replaces the opponent of a round the user marked as Creep.
	CreepSentinel = "Round Creep"
	// ByeOpponent is shown on rows the naming scheme reserves as byes.
	ByeOpponent = "Creep"
)

// Shape is the roster layout: how many slots and how the cycle is derived from them.
type Shape int

const (
	// ShapeSeven: P6 and P7 lead the cycle, P1-P5 are shuffled behind them.
	ShapeSeven Shape = 7
	// ShapeEight: P1 is the player; five known opponents are assigned from P2-P8
	// and the two left over trail the cycle.
	ShapeEight Shape = 8
)

const knownSlots = 5

// ParseShape accepts 7 and 8.
func ParseShape(n int) (Shape, error) {
	switch Shape(n) {
	case ShapeSeven, ShapeEight:
		return Shape(n), nil
	}
	return 0, fmt.Errorf("unsupported roster shape %d (want 7 or 8)", n)
}

// Slots is the number of names a roster of this shape carries.
func (s Shape) Slots() int { return int(s) }

// KnownSlots is the number of known-opponent assignments the shape expects.
func (s Shape) KnownSlots() int {
	if s == ShapeEight {
		return knownSlots
	}
	return 0
}

// Mode identifies one of the two parallel predictions.
type Mode int

const (
	ModeA Mode = iota
	ModeB
)

// Modes lists both modes in display order.
var Modes = [...]Mode{ModeA, ModeB}

func (m Mode) valid() bool { return m == ModeA || m == ModeB }

func (m Mode) String() string {
	switch m {
	case ModeA:
		return "a"
	case ModeB:
		return "b"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Title is the heading shown above the mode's table.
func (m Mode) Title() string {
	if m == ModeB {
		return "🟥 Kemungkinan 2"
	}
	return "🟦 Kemungkinan 1"
}

// Color is the accent the UI paints the mode's table with.
func (m Mode) Color() string {
	if m == ModeB {
		return "red"
	}
	return "blue"
}

// ParseMode accepts "a"/"b", "1"/"2" and the colors.
func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "a", "1", "blue":
		return ModeA, nil
	case "b", "2", "red":
		return ModeB, nil
	}
	return 0, &InvariantError{Op: "parse mode", Err: fmt.Errorf("%w: %q", ErrUnknownMode, v)}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// State is the engine's lifecycle position.
type State int

const (
	StateEmpty State = iota
	StateCollecting
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateCollecting:
		return "collecting"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Entry references one roster slot. Identity is the slot, not the name.
type Entry struct {
	Slot int    `json:"slot"`
	Name string `json:"name"`
}

// Cycle is the repeating opponent order of one mode.
type Cycle []Entry

// Names returns the display names in cycle order.
func (c Cycle) Names() []string {
	out := make([]string, len(c))
	for i, e := range c {
		out[i] = e.Name
	}
	return out
}

// Round is one rendered row.
type Round struct {
	Index      int    `json:"index"`
	Label      string `json:"label"`
	Opponent   string `json:"opponent"`
	Slot       int    `json:"slot"` // -1 on byes and overridden rows
	Bye        bool   `json:"bye,omitempty"`
	Overridden bool   `json:"overridden,omitempty"`
}

// Table is the rendered prediction for one mode.
type Table struct {
	Mode   Mode    `json:"mode"`
	Title  string  `json:"title"`
	Color  string  `json:"color"`
	Rounds []Round `json:"rounds"`
}

// Snapshot is everything a caller needs to redraw the predictor.
type Snapshot struct {
	State      State         `json:"state"`
	Shape      Shape         `json:"shape"`
	Scheme     engine.Scheme `json:"scheme"`
	RoundCount int           `json:"round_count"`
	Capacity   int           `json:"capacity,omitempty"`
	Draft      *Roster       `json:"draft,omitempty"`
	Tables     []Table       `json:"tables,omitempty"`
}
