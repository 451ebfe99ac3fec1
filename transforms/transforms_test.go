package transforms

import (
	"testing"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/tensor"
)

func mustTensor(t *testing.T, data []float64, shape ...int) *tensor.Tensor {
	t.Helper()
	out, err := tensor.FromSlice(data, shape...)
	if err != nil {
		t.Fatalf("FromSlice() error = %v", err)
	}
	return out
}

func mustDense(t *testing.T, data []float64, shape ...int) core.Dense {
	t.Helper()
	return core.Dense{Tensor: mustTensor(t, data, shape...)}
}

func wantDense(t *testing.T, rec core.Record, key string, want *tensor.Tensor) {
	t.Helper()
	got, ok := rec.Dense(key)
	if !ok {
		t.Fatalf("field %q is %T, want dense", key, rec[key])
	}
	if !tensor.Equal(got, want) {
		t.Errorf("field %q = %v %v, want %v %v", key, got.Shape(), got.Data(), want.Shape(), want.Data())
	}
}
