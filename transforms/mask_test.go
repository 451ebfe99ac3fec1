package transforms

import (
	"context"
	"testing"

	"github.com/BerenLuthien/ReAgent/core"
)

func TestMaskByPresence(t *testing.T) {
	ctx := context.Background()
	rec := core.Record{
		"state": core.ValuePresence{
			Value:    mustTensor(t, []float64{1, 2, 3, 4}, 2, 2),
			Presence: mustTensor(t, []float64{1, 0, 0, 1}, 2, 2),
		},
	}
	out, err := NewMaskByPresence([]string{"state"}).Apply(ctx, rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	wantDense(t, out, "state", mustTensor(t, []float64{1, 0, 0, 4}, 2, 2))
}

func TestMaskByPresenceErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("shape mismatch", func(t *testing.T) {
		rec := core.Record{
			"state": core.ValuePresence{
				Value:    mustTensor(t, []float64{1, 2, 3, 4}, 2, 2),
				Presence: mustTensor(t, []float64{1, 0}, 2),
			},
		}
		_, err := NewMaskByPresence([]string{"state"}).Apply(ctx, rec)
		if !core.IsShapeViolation(err) {
			t.Errorf("error = %v, want shape violation", err)
		}
	})

	t.Run("not a pair", func(t *testing.T) {
		rec := core.Record{"state": mustDense(t, []float64{1, 2}, 2)}
		_, err := NewMaskByPresence([]string{"state"}).Apply(ctx, rec)
		if !core.IsTypeViolation(err) {
			t.Errorf("error = %v, want type violation", err)
		}
	})
}
