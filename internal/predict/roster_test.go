package predict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterValidate(t *testing.T) {
	t.Parallel()

	eightNames := func() []string { return []string{"Me", "B", "C", "D", "E", "F", "G", "H"} }

	tests := []struct {
		name   string
		shape  Shape
		roster Roster
		field  string
	}{
		{"ok seven", ShapeSeven, Roster{Names: sevenNames()}, ""},
		{"too few", ShapeSeven, Roster{Names: sevenNames()[:6]}, "names"},
		{"blank name", ShapeSeven, Roster{Names: []string{"a", "b", "  ", "d", "e", "f", "g"}}, "names[2]"},
		{"known on seven", ShapeSeven, Roster{Names: sevenNames(), Known: []int{1}}, "known"},
		{"ok eight", ShapeEight, Roster{Names: eightNames(), Known: []int{1, 2, 3, 4, 5}}, ""},
		{"missing known", ShapeEight, Roster{Names: eightNames(), Known: []int{1, 2, 3}}, "known"},
		{"player picked", ShapeEight, Roster{Names: eightNames(), Known: []int{0, 2, 3, 4, 5}}, "known[0]"},
		{"out of range", ShapeEight, Roster{Names: eightNames(), Known: []int{1, 2, 3, 4, 8}}, "known[4]"},
		{"duplicate", ShapeEight, Roster{Names: eightNames(), Known: []int{1, 2, 3, 2, 5}}, "known[3]"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.roster.Validate(tt.shape)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want *ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Reason)
		})
	}
}

func TestRosterValidateTrims(t *testing.T) {
	t.Parallel()

	r := Roster{Names: []string{" a ", "b", "c", "d", "e", "f", "g\t"}}
	require.NoError(t, r.Validate(ShapeSeven))
	assert.Equal(t, "a", r.Names[0])
	assert.Equal(t, "g", r.Names[6])
}
