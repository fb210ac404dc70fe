package canvassheets

import "sort"

// ApplyFormulas runs every formula and summary definition in the project
// in one pass, ordered by definition stamp. A definition sees the output
// of every definition stamped before it, including definitions applied
// earlier in the same pass. Formula output never deletes definitions, so
// repeated passes over unchanged inputs produce identical cells.
func (p *Project) ApplyFormulas() error {
	type step struct {
		order int
		run   func() error
	}
	var steps []step
	for _, s := range p.sheets {
		for _, t := range s.tables {
			t := t
			for _, def := range t.formulas {
				def := def
				steps = append(steps, step{order: def.Order, run: func() error {
					t.applyFormula(def)
					return nil
				}})
			}
			if t.summary != nil {
				steps = append(steps, step{order: t.summary.Order, run: t.recomputeSummary})
			}
		}
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].order < steps[j].order })
	for _, st := range steps {
		if err := st.run(); err != nil {
			return err
		}
	}
	return nil
}
