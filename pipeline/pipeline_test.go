package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/BerenLuthien/ReAgent/core"
)

// fakeTransform 记录应用顺序，便于验证流水线行为。
type fakeTransform struct {
	name string
	log  *[]string
	err  error
}

func (t *fakeTransform) Name() string { return t.name }
func (t *fakeTransform) Kind() Kind   { return KindStructural }

func (t *fakeTransform) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	*t.log = append(*t.log, t.name)
	if t.err != nil {
		return nil, t.err
	}
	return rec, nil
}

func TestComposeAppliesInOrder(t *testing.T) {
	var log []string
	p := NewCompose(
		&fakeTransform{name: "first", log: &log},
		&fakeTransform{name: "second", log: &log},
		&fakeTransform{name: "third", log: &log},
	)
	if _, err := p.Apply(context.Background(), core.Record{}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(log) != len(want) {
		t.Fatalf("applied %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("applied %v, want %v", log, want)
		}
	}
}

func TestComposeAbortsOnError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	p := NewCompose(
		&fakeTransform{name: "first", log: &log},
		&fakeTransform{name: "broken", log: &log, err: boom},
		&fakeTransform{name: "never", log: &log},
	)
	_, err := p.Apply(context.Background(), core.Record{})
	if !errors.Is(err, boom) {
		t.Fatalf("Apply() error = %v, want boom", err)
	}
	if len(log) != 2 {
		t.Errorf("applied %v, later transforms must not run after an error", log)
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	var log []string
	f.Register("fake", func(cfg map[string]any) (Transform, error) {
		return &fakeTransform{name: cfg["name"].(string), log: &log}, nil
	})

	tr, err := f.Build("fake", map[string]any{"name": "built"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if tr.Name() != "built" {
		t.Errorf("Name() = %q, want built", tr.Name())
	}

	if _, err := f.Build("unknown", nil); err == nil {
		t.Error("Build() with an unregistered type should fail")
	}
}
