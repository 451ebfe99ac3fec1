package transforms

import (
	"context"
	"math"
	"testing"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/preprocessing"
)

func identityData(cols int) core.NormalizationData {
	out := core.NormalizationData{Columns: make([]core.NormalizationParameters, cols)}
	for i := range out.Columns {
		out.Columns[i] = core.NormalizationParameters{Method: core.NormalizationIdentity}
	}
	return out
}

func TestDenseNormalization(t *testing.T) {
	ctx := context.Background()
	data := core.NormalizationData{Columns: []core.NormalizationParameters{
		{Method: core.NormalizationZScore, Mean: 1, Std: 2},
		{Method: core.NormalizationIdentity},
	}}
	tr, err := NewDenseNormalization([]string{"state"}, data, preprocessing.New, core.DeviceCPU)
	if err != nil {
		t.Fatalf("NewDenseNormalization() error = %v", err)
	}

	rec := core.Record{
		"state": core.ValuePresence{
			Value:    mustTensor(t, []float64{3, 10, math.NaN(), 20}, 2, 2),
			Presence: mustTensor(t, []float64{1, 1, 1, 1}, 2, 2),
		},
	}
	out, err := tr.Apply(ctx, rec)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	// NaN 在归一化前被清洗为 (0, presence=0)，归一化后保持 0
	wantDense(t, out, "state", mustTensor(t, []float64{1, 10, 0, 20}, 2, 2))
}

func TestDenseNormalizationErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewDenseNormalization([]string{"state"}, identityData(1), nil, core.DeviceCPU); !core.IsMisconfigured(err) {
		t.Errorf("nil factory: error = %v, want misconfigured", err)
	}

	tr, _ := NewDenseNormalization([]string{"state"}, identityData(2), preprocessing.New, core.DeviceCPU)

	t.Run("declared field missing", func(t *testing.T) {
		_, err := tr.Apply(ctx, core.Record{})
		if !core.IsMissingField(err) {
			t.Errorf("error = %v, want missing field", err)
		}
	})

	t.Run("column count mismatch", func(t *testing.T) {
		rec := core.Record{"state": core.ValuePresence{
			Value:    mustTensor(t, []float64{1, 2, 3}, 1, 3),
			Presence: mustTensor(t, []float64{1, 1, 1}, 1, 3),
		}}
		_, err := tr.Apply(ctx, rec)
		if !core.IsShapeViolation(err) {
			t.Errorf("error = %v, want shape violation", err)
		}
	})
}

// 归一化器只在首次 Apply 时构建一次，之后复用。
func TestDenseNormalizationBuildsNormalizerOnce(t *testing.T) {
	ctx := context.Background()
	calls := 0
	factory := func(data core.NormalizationData, device core.Device) (core.Normalizer, error) {
		calls++
		return preprocessing.New(data, device)
	}
	tr, err := NewDenseNormalization([]string{"state"}, identityData(1), factory, core.DeviceCPU)
	if err != nil {
		t.Fatalf("NewDenseNormalization() error = %v", err)
	}
	rec := func() core.Record {
		return core.Record{"state": core.ValuePresence{
			Value:    mustTensor(t, []float64{1, 2}, 2, 1),
			Presence: mustTensor(t, []float64{1, 1}, 2, 1),
		}}
	}
	if _, err := tr.Apply(ctx, rec()); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}
	if _, err := tr.Apply(ctx, rec()); err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("factory called %d times, want 1", calls)
	}
}
