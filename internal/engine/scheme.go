package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Scheme selects how row indices are labeled and where intrinsic byes fall.
type Scheme int

const (
	// SchemeChapter starts at II-4 and runs six steps per chapter without end.
	SchemeChapter Scheme = iota + 1
	// SchemeTournament is a fixed four-round bracket with one bye per round.
	SchemeTournament
)

// Slot describes a single row position under a scheme.
type Slot struct {
	Label string `json:"label"`
	Round int    `json:"round"`
	Step  int    `json:"step"`
	Bye   bool   `json:"bye,omitempty"`
}

// Tournament layout: Round I has 4 steps, II-IV have 6. The bye step is 1 in
// Round I and 3 everywhere else.
var (
	tournamentSteps   = [...]int{4, 6, 6, 6}
	tournamentByeStep = [...]int{1, 3, 3, 3}
)

const (
	chapterLead     = 3 // II-4, II-5, II-6
	chapterSteps    = 6
	chapterFirst    = 3 // first full chapter
	chapterLeadFrom = 4 // step of index 0
)

var labelRe = regexp.MustCompile(`(?i)^\s*([IVXLCDM]+)\s*-\s*(\d+)\s*$`)

func (s Scheme) String() string {
	switch s {
	case SchemeChapter:
		return "chapter"
	case SchemeTournament:
		return "tournament"
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// MarshalText renders the scheme by name.
func (s Scheme) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names produced by String and the numbers 1 and 2.
func (s *Scheme) UnmarshalText(b []byte) error {
	v, err := ParseScheme(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseScheme maps "chapter"/"1" and "tournament"/"2" to a Scheme.
func ParseScheme(v string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "chapter", "1", "":
		return SchemeChapter, nil
	case "tournament", "2":
		return SchemeTournament, nil
	}
	return 0, fmt.Errorf("unknown naming scheme %q", v)
}

// Capacity is the number of rows the scheme can label; 0 means unbounded.
func (s Scheme) Capacity() int {
	if s == SchemeTournament {
		n := 0
		for _, steps := range tournamentSteps {
			n += steps
		}
		return n
	}
	return 0
}

// Slot returns the position at index. ok is false for negative indices and
// for indices past a bounded scheme's capacity.
func (s Scheme) Slot(index int) (Slot, bool) {
	if index < 0 {
		return Slot{}, false
	}
	switch s {
	case SchemeTournament:
		rest := index
		for i, steps := range tournamentSteps {
			if rest < steps {
				round, step := i+1, rest+1
				return Slot{
					Label: fmt.Sprintf("%s-%d", ToRoman(round), step),
					Round: round,
					Step:  step,
					Bye:   step == tournamentByeStep[i],
				}, true
			}
			rest -= steps
		}
		return Slot{}, false
	default:
		round, step := chapterOf(index)
		return Slot{Label: fmt.Sprintf("%s-%d", ToRoman(round), step), Round: round, Step: step}, true
	}
}

func chapterOf(index int) (chapter, step int) {
	if index < chapterLead {
		return 2, index + chapterLeadFrom
	}
	adj := index - chapterLead
	return chapterFirst + adj/chapterSteps, 1 + adj%chapterSteps
}

// NameFor is the label of the row at index, or "" where Slot reports !ok.
func (s Scheme) NameFor(index int) string {
	slot, ok := s.Slot(index)
	if !ok {
		return ""
	}
	return slot.Label
}

// IndexOf is the inverse of NameFor. Labels are matched case-insensitively.
func (s Scheme) IndexOf(label string) (int, bool) {
	m := labelRe.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	round, ok := FromRoman(m[1])
	if !ok {
		return 0, false
	}
	step, err := strconv.Atoi(m[2])
	if err != nil || step < 1 {
		return 0, false
	}
	switch s {
	case SchemeTournament:
		if round > len(tournamentSteps) || step > tournamentSteps[round-1] {
			return 0, false
		}
		index := step - 1
		for i := 0; i < round-1; i++ {
			index += tournamentSteps[i]
		}
		return index, true
	default:
		switch {
		case round == 2 && step >= chapterLeadFrom && step < chapterLeadFrom+chapterLead:
			return step - chapterLeadFrom, true
		case round >= chapterFirst && step <= chapterSteps:
			return chapterLead + (round-chapterFirst)*chapterSteps + step - 1, true
		}
		return 0, false
	}
}
