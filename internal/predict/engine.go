// Package predict builds and maintains the two round-prediction tables of a
// single user session.
package predict

import (
	"fmt"
	"math/rand"

	"github.com/zyren-ai/zyren/internal/engine"
)

const (
	DefaultInitialRounds = 10
	DefaultIncrement     = 5
)

// Config fixes the roster shape and naming scheme for the lifetime of an Engine.
type Config struct {
	Shape         Shape
	Scheme        engine.Scheme
	InitialRounds int
	Increment     int
	// Strict panics on invariant violations instead of ignoring the call.
	Strict bool
}

// DefaultConfig is the 7-slot roster with chapter labels, 10 rows, +5 per extension.
func DefaultConfig() Config {
	return Config{
		Shape:         ShapeSeven,
		Scheme:        engine.SchemeChapter,
		InitialRounds: DefaultInitialRounds,
		Increment:     DefaultIncrement,
	}
}

func (c Config) normalized() Config {
	if c.Shape == 0 {
		c.Shape = ShapeSeven
	}
	if c.Scheme == 0 {
		c.Scheme = engine.SchemeChapter
	}
	if c.InitialRounds <= 0 {
		c.InitialRounds = DefaultInitialRounds
	}
	if c.Increment <= 0 {
		c.Increment = DefaultIncrement
	}
	return c
}

// Engine is the per-session predictor. It is not safe for concurrent use;
// callers serialize access per session.
type Engine struct {
	cfg   Config
	rng   *rand.Rand
	state State

	draft      Roster
	roster     Roster
	cycles     [2]Cycle
	roundCount int
	overrides  [2]map[int]struct{}
}

// New returns an empty engine. A nil r gets a time-seeded source.
func New(cfg Config, r *rand.Rand) *Engine {
	if r == nil {
		r = engine.NewRNG()
	}
	return &Engine{cfg: cfg.normalized(), rng: r}
}

func (e *Engine) Config() Config  { return e.cfg }
func (e *Engine) State() State    { return e.state }
func (e *Engine) RoundCount() int { return e.roundCount }

// Cycle returns a copy of the base cycle of m, nil before a roster is submitted.
func (e *Engine) Cycle(m Mode) Cycle {
	if e.state != StateReady || !m.valid() {
		return nil
	}
	return append(Cycle(nil), e.cycles[m]...)
}

// Roster returns the submitted roster, or the draft while collecting.
func (e *Engine) Roster() Roster {
	if e.state == StateReady {
		return e.roster.clone()
	}
	return e.draft.clone()
}

func (e *Engine) violate(op string, err error) error {
	ierr := &InvariantError{Op: op, Err: err}
	if e.cfg.Strict {
		panic(ierr)
	}
	return ierr
}

// Stage records the names typed so far. Partial and empty names are fine.
func (e *Engine) Stage(names []string) error {
	if e.state == StateReady {
		return e.violate("stage", ErrAlreadyReady)
	}
	e.draft.Names = append([]string(nil), names...)
	e.state = StateCollecting
	return nil
}

// Assign records the known-opponent picks of an 8-slot roster.
func (e *Engine) Assign(known []int) error {
	if e.state == StateReady {
		return e.violate("assign", ErrAlreadyReady)
	}
	e.draft.Known = append([]int(nil), known...)
	e.state = StateCollecting
	return nil
}

// Submit validates the draft and, on success, creates both tables together.
// A *ValidationError leaves the engine collecting with the draft intact.
func (e *Engine) Submit() error {
	if e.state == StateReady {
		return e.violate("submit", ErrAlreadyReady)
	}
	roster := e.draft.clone()
	if err := roster.Validate(e.cfg.Shape); err != nil {
		return err
	}
	a, b, err := BuildCycles(e.cfg.Shape, roster, e.rng)
	if err != nil {
		return fmt.Errorf("build cycles: %w", err)
	}

	e.roster = roster
	e.cycles = [2]Cycle{a, b}
	e.overrides = [2]map[int]struct{}{{}, {}}
	e.roundCount = e.clamp(e.cfg.InitialRounds)
	e.state = StateReady
	return nil
}

// SubmitRoster stages r and submits it in one step. A rejected roster leaves
// the previous draft and state as they were.
func (e *Engine) SubmitRoster(r Roster) (Snapshot, error) {
	if e.state == StateReady {
		return e.Snapshot(), e.violate("submit", ErrAlreadyReady)
	}
	candidate := r.clone()
	if err := candidate.Validate(e.cfg.Shape); err != nil {
		return e.Snapshot(), err
	}

	prevDraft, prevState := e.draft, e.state
	e.draft = candidate
	e.state = StateCollecting
	if err := e.Submit(); err != nil {
		e.draft, e.state = prevDraft, prevState
		return e.Snapshot(), err
	}
	return e.Snapshot(), nil
}

// Extend grows both tables by the configured increment. Rows already shown
// render exactly as before since the cycles never change.
func (e *Engine) Extend() ([]Table, error) {
	if e.state != StateReady {
		return nil, e.violate("extend", ErrNotReady)
	}
	e.roundCount = e.clamp(e.roundCount + e.cfg.Increment)
	return e.Tables(), nil
}

// Override marks round index of mode m as Creep. It cannot be undone until Reset.
func (e *Engine) Override(m Mode, index int) ([]Table, error) {
	if e.state != StateReady {
		return nil, e.violate("override", ErrNotReady)
	}
	if !m.valid() {
		return nil, e.violate("override", fmt.Errorf("%w: %d", ErrUnknownMode, int(m)))
	}
	if index < 0 || index >= e.roundCount {
		return nil, e.violate("override", fmt.Errorf("%w: %d not in [0,%d)", ErrRoundOutOfRange, index, e.roundCount))
	}
	if slot, _ := e.cfg.Scheme.Slot(index); !slot.Bye {
		e.overrides[m][index] = struct{}{}
	}
	return e.Tables(), nil
}

// Overridden reports whether round index of m was marked Creep.
func (e *Engine) Overridden(m Mode, index int) bool {
	if e.state != StateReady || !m.valid() {
		return false
	}
	_, ok := e.overrides[m][index]
	return ok
}

// Reset drops the roster, cycles and both tables.
func (e *Engine) Reset() {
	e.state = StateEmpty
	e.draft = Roster{}
	e.roster = Roster{}
	e.cycles = [2]Cycle{}
	e.overrides = [2]map[int]struct{}{}
	e.roundCount = 0
}

func (e *Engine) clamp(n int) int {
	if c := e.cfg.Scheme.Capacity(); c > 0 && n > c {
		return c
	}
	return n
}

// Snapshot reports the state and, once ready, both rendered tables.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		State:      e.state,
		Shape:      e.cfg.Shape,
		Scheme:     e.cfg.Scheme,
		RoundCount: e.roundCount,
		Capacity:   e.cfg.Scheme.Capacity(),
	}
	switch e.state {
	case StateCollecting:
		d := e.draft.clone()
		s.Draft = &d
	case StateReady:
		s.Tables = e.Tables()
	}
	return s
}
