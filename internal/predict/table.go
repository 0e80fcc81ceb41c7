package predict

// Tables renders both modes, nil until a roster is submitted.
func (e *Engine) Tables() []Table {
	if e.state != StateReady {
		return nil
	}
	out := make([]Table, 0, len(Modes))
	for _, m := range Modes {
		out = append(out, e.render(m))
	}
	return out
}

// render walks the scheme's slots. Byes take no cycle position; overridden rows
// still do, so marking one never shifts the opponents after it.
func (e *Engine) render(m Mode) Table {
	cycle := e.cycles[m]
	rounds := make([]Round, 0, e.roundCount)
	next := 0
	for i := 0; i < e.roundCount; i++ {
		slot, ok := e.cfg.Scheme.Slot(i)
		if !ok {
			break
		}
		r := Round{Index: i, Label: slot.Label, Slot: -1}
		if slot.Bye {
			r.Opponent = ByeOpponent
			r.Bye = true
			rounds = append(rounds, r)
			continue
		}
		entry := cycle[next%len(cycle)]
		next++
		if _, creep := e.overrides[m][i]; creep {
			r.Opponent = CreepSentinel
			r.Overridden = true
		} else {
			r.Opponent = entry.Name
			r.Slot = entry.Slot
		}
		rounds = append(rounds, r)
	}
	return Table{Mode: m, Title: m.Title(), Color: m.Color(), Rounds: rounds}
}
