package transforms

import (
	"context"
	"testing"

	"github.com/BerenLuthien/ReAgent/core"
)

func TestAppendConstant(t *testing.T) {
	ctx := context.Background()
	rec := core.Record{"state": mustDense(t, []float64{1, 2, 3, 4}, 2, 2)}
	out, err := NewAppendConstant([]string{"state"}, -1, 1).Apply(ctx, rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	wantDense(t, out, "state", mustTensor(t, []float64{1, 1, 2, 1, 3, 4}, 2, 3))
}

func TestUnsqueezeRepeatTransform(t *testing.T) {
	ctx := context.Background()
	rec := core.Record{"state": mustDense(t, []float64{1, 2}, 2)}
	out, err := NewUnsqueezeRepeat([]string{"state"}, 1, 3).Apply(ctx, rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	wantDense(t, out, "state", mustTensor(t, []float64{1, 1, 1, 2, 2, 2}, 2, 3))
}

func TestOuterProduct(t *testing.T) {
	ctx := context.Background()
	rec := core.Record{
		"state":  mustDense(t, []float64{1, 2, 3}, 1, 3),
		"action": mustDense(t, []float64{10, 20, 30, 40}, 1, 4),
	}
	out, err := NewOuterProduct("state", "action", "state_action", true).Apply(ctx, rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got, ok := out.Dense("state_action")
	if !ok {
		t.Fatalf("state_action is %T, want dense", out["state_action"])
	}
	if got.Size(0) != 1 || got.Size(1) != 12 {
		t.Errorf("state_action shape = %v, want [1 12]", got.Shape())
	}
	if out.Has("state") || out.Has("action") {
		t.Error("drop-inputs must remove both input fields")
	}
}

func TestOuterProductKeepsInputs(t *testing.T) {
	ctx := context.Background()
	rec := core.Record{
		"state":  mustDense(t, []float64{1, 2}, 1, 2),
		"action": mustDense(t, []float64{3, 4}, 1, 2),
	}
	out, err := NewOuterProduct("state", "action", "state_action", false).Apply(ctx, rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !out.Has("state") || !out.Has("action") {
		t.Error("input fields must survive when drop-inputs is off")
	}
	wantDense(t, out, "state_action", mustTensor(t, []float64{3, 4, 6, 8}, 1, 4))
}

func TestGetEye(t *testing.T) {
	ctx := context.Background()
	tr, err := NewGetEye("eye", 2)
	if err != nil {
		t.Fatalf("NewGetEye() error = %v", err)
	}
	out, err := tr.Apply(ctx, core.Record{})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	wantDense(t, out, "eye", mustTensor(t, []float64{1, 0, 0, 1}, 2, 2))

	if _, err := NewGetEye("eye", 0); !core.IsMisconfigured(err) {
		t.Errorf("zero size: error = %v, want misconfigured", err)
	}
}

func TestCatTransform(t *testing.T) {
	ctx := context.Background()

	t.Run("plain concat", func(t *testing.T) {
		rec := core.Record{
			"a": mustDense(t, []float64{1, 2}, 1, 2),
			"b": mustDense(t, []float64{3}, 1, 1),
		}
		tr, err := NewCat([]string{"a", "b"}, "ab", 1, false)
		if err != nil {
			t.Fatalf("NewCat() error = %v", err)
		}
		out, err := tr.Apply(ctx, rec)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		wantDense(t, out, "ab", mustTensor(t, []float64{1, 2, 3}, 1, 3))
	})

	t.Run("broadcast concat", func(t *testing.T) {
		rec := core.Record{
			"a": mustDense(t, []float64{1, 2, 3, 4}, 2, 2),
			"b": mustDense(t, []float64{9}, 1, 1),
		}
		tr, _ := NewCat([]string{"a", "b"}, "ab", 1, true)
		out, err := tr.Apply(ctx, rec)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		wantDense(t, out, "ab", mustTensor(t, []float64{1, 2, 9, 3, 4, 9}, 2, 3))
	})

	t.Run("mismatch without broadcast", func(t *testing.T) {
		rec := core.Record{
			"a": mustDense(t, []float64{1, 2, 3, 4}, 2, 2),
			"b": mustDense(t, []float64{9}, 1, 1),
		}
		tr, _ := NewCat([]string{"a", "b"}, "ab", 1, false)
		if _, err := tr.Apply(ctx, rec); !core.IsShapeViolation(err) {
			t.Errorf("error = %v, want shape violation", err)
		}
	})

	if _, err := NewCat(nil, "out", 0, false); !core.IsMisconfigured(err) {
		t.Errorf("no inputs: error = %v, want misconfigured", err)
	}
}
