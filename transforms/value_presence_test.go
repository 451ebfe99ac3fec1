package transforms

import (
	"context"
	"testing"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/tensor"
)

func TestValuePresence(t *testing.T) {
	ctx := context.Background()
	rec := core.Record{
		"state":          mustDense(t, []float64{1, 2, 3, 4}, 2, 2),
		"state_presence": mustDense(t, []float64{1, 0, 1, 1}, 2, 2),
		"reward":         mustDense(t, []float64{0.5, 0.7}, 2, 1),
	}

	out, err := NewValuePresence().Apply(ctx, rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	pair, ok := out["state"].(core.ValuePresence)
	if !ok {
		t.Fatalf("state is %T, want value_presence pair", out["state"])
	}
	if !tensor.Equal(pair.Value, mustTensor(t, []float64{1, 2, 3, 4}, 2, 2)) {
		t.Errorf("pair value = %v", pair.Value.Data())
	}
	if !tensor.Equal(pair.Presence, mustTensor(t, []float64{1, 0, 1, 1}, 2, 2)) {
		t.Errorf("pair presence = %v", pair.Presence.Data())
	}
	if out.Has("state_presence") {
		t.Error("sibling presence field should be removed after pairing")
	}
	// 没有兄弟字段的字段保持原样
	if _, ok := out["reward"].(core.Dense); !ok {
		t.Errorf("reward is %T, want dense", out["reward"])
	}
}

func TestValuePresenceSkipsNonDense(t *testing.T) {
	ctx := context.Background()
	rec := core.Record{
		"action":          core.Scalars{1, 2},
		"action_presence": mustDense(t, []float64{1, 1}, 2),
	}
	out, err := NewValuePresence().Apply(ctx, rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, ok := out["action"].(core.Scalars); !ok {
		t.Errorf("action is %T, want untouched scalars", out["action"])
	}
	if !out.Has("action_presence") {
		t.Error("presence sibling of a non-dense field must not be consumed")
	}
}

func TestSelectValuePresenceColumns(t *testing.T) {
	ctx := context.Background()
	rec := core.Record{
		"features": core.ValuePresence{
			Value:    mustTensor(t, []float64{0, 1, 2, 10, 11, 12}, 2, 3),
			Presence: mustTensor(t, []float64{1, 1, 0, 0, 1, 1}, 2, 3),
		},
	}
	out, err := NewSelectValuePresenceColumns("features", "picked", []int{2, 0}).Apply(ctx, rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	pair, ok := out["picked"].(core.ValuePresence)
	if !ok {
		t.Fatalf("picked is %T, want value_presence pair", out["picked"])
	}
	if !tensor.Equal(pair.Value, mustTensor(t, []float64{2, 0, 12, 10}, 2, 2)) {
		t.Errorf("picked value = %v", pair.Value.Data())
	}
	if !tensor.Equal(pair.Presence, mustTensor(t, []float64{0, 1, 1, 0}, 2, 2)) {
		t.Errorf("picked presence = %v", pair.Presence.Data())
	}
}

func TestSelectValuePresenceColumnsErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("index out of range", func(t *testing.T) {
		rec := core.Record{
			"features": core.ValuePresence{
				Value:    mustTensor(t, []float64{1, 2}, 1, 2),
				Presence: mustTensor(t, []float64{1, 1}, 1, 2),
			},
		}
		_, err := NewSelectValuePresenceColumns("features", "picked", []int{5}).Apply(ctx, rec)
		if !core.IsShapeViolation(err) {
			t.Errorf("error = %v, want shape violation", err)
		}
	})

	t.Run("not a pair", func(t *testing.T) {
		rec := core.Record{"features": mustDense(t, []float64{1, 2}, 1, 2)}
		_, err := NewSelectValuePresenceColumns("features", "picked", []int{0}).Apply(ctx, rec)
		if !core.IsTypeViolation(err) {
			t.Errorf("error = %v, want type violation", err)
		}
	})
}
