package runner

import (
	"context"
	"testing"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/loader"
	"github.com/BerenLuthien/ReAgent/pipeline"
	"github.com/BerenLuthien/ReAgent/tensor"
	"github.com/BerenLuthien/ReAgent/transforms"
)

func denseRecord(t *testing.T, key string, data []float64) core.Record {
	t.Helper()
	tt, err := tensor.FromSlice(data, len(data))
	if err != nil {
		t.Fatalf("FromSlice() error = %v", err)
	}
	return core.Record{key: core.Dense{Tensor: tt}}
}

func TestRunnerProcessesAllBatches(t *testing.T) {
	records := make([]core.Record, 10)
	for i := range records {
		records[i] = denseRecord(t, "reward", []float64{float64(i)})
	}

	builds := 0
	r := &Runner{
		Workers: 3,
		Build: func() (*pipeline.Compose, error) {
			builds++
			return pipeline.NewCompose(transforms.NewColumnVector([]string{"reward"})), nil
		},
	}
	out, err := r.Run(context.Background(), loader.NewSliceSource(records))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != len(records) {
		t.Fatalf("processed %d batches, want %d", len(out), len(records))
	}
	// 每个 worker 独占一条流水线
	if builds != 3 {
		t.Errorf("pipeline built %d times, want once per worker", builds)
	}
	for _, rec := range out {
		d, ok := rec.Dense("reward")
		if !ok || d.Dims() != 2 || d.Size(1) != 1 {
			t.Fatalf("reward = %v, want a (batch, 1) column", rec["reward"])
		}
	}
}

func TestRunnerDefaultsToOneWorker(t *testing.T) {
	builds := 0
	r := &Runner{
		Build: func() (*pipeline.Compose, error) {
			builds++
			return pipeline.NewCompose(), nil
		},
	}
	out, err := r.Run(context.Background(), loader.NewSliceSource([]core.Record{
		denseRecord(t, "a", []float64{1}),
	}))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 1 || builds != 1 {
		t.Errorf("out = %d records, builds = %d, want 1 and 1", len(out), builds)
	}
}

func TestRunnerStopsOnError(t *testing.T) {
	records := []core.Record{
		{"reward": core.Scalars{1}}, // 流水线只接受 ragged sequence，会报错
	}
	r := &Runner{
		Workers: 2,
		Build: func() (*pipeline.Compose, error) {
			tr, err := transforms.NewFixedLengthSequences([]string{"reward"}, 1)
			if err != nil {
				return nil, err
			}
			return pipeline.NewCompose(tr), nil
		},
	}
	_, err := r.Run(context.Background(), loader.NewSliceSource(records))
	if !core.IsTypeViolation(err) {
		t.Errorf("Run() error = %v, want the transform error surfaced", err)
	}
}

func TestRunnerRequiresBuilder(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(context.Background(), loader.NewSliceSource(nil))
	if !core.IsMisconfigured(err) {
		t.Errorf("Run() error = %v, want misconfigured", err)
	}
}
