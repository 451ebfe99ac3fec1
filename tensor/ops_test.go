package tensor

import (
	"math"
	"testing"
)

func mustTensor(t *testing.T, data []float64, shape ...int) *Tensor {
	t.Helper()
	out, err := FromSlice(data, shape...)
	if err != nil {
		t.Fatalf("FromSlice() error = %v", err)
	}
	return out
}

func TestMul(t *testing.T) {
	a := mustTensor(t, []float64{1, 2, 3, 4}, 2, 2)
	b := mustTensor(t, []float64{0, 1, 0, 1}, 2, 2)
	got, err := Mul(a, b)
	if err != nil {
		t.Fatalf("Mul() error = %v", err)
	}
	want := mustTensor(t, []float64{0, 2, 0, 4}, 2, 2)
	if !Equal(got, want) {
		t.Errorf("Mul() = %v, want %v", got.Data(), want.Data())
	}
	if a.At(0, 0) != 1 {
		t.Error("Mul() must not modify its inputs")
	}

	if _, err := Mul(a, mustTensor(t, []float64{1, 2}, 2)); err == nil {
		t.Error("Mul() with mismatched shapes should fail")
	}
}

func TestScrubNaN(t *testing.T) {
	value := mustTensor(t, []float64{1, math.NaN(), 3, math.NaN()}, 2, 2)
	presence := mustTensor(t, []float64{1, 1, 0, 1}, 2, 2)
	v, p, err := ScrubNaN(value, presence)
	if err != nil {
		t.Fatalf("ScrubNaN() error = %v", err)
	}
	wantV := mustTensor(t, []float64{1, 0, 3, 0}, 2, 2)
	wantP := mustTensor(t, []float64{1, 0, 0, 0}, 2, 2)
	if !Equal(v, wantV) {
		t.Errorf("scrubbed value = %v, want %v", v.Data(), wantV.Data())
	}
	if !Equal(p, wantP) {
		t.Errorf("scrubbed presence = %v, want %v", p.Data(), wantP.Data())
	}
	if !math.IsNaN(value.At(0, 1)) {
		t.Error("ScrubNaN() must not modify its inputs")
	}
}

func TestOneHot(t *testing.T) {
	tests := []struct {
		name    string
		data    []float64
		classes int
		want    []float64
		wantErr bool
	}{
		{
			name: "basic", data: []float64{0, 2, 1}, classes: 3,
			want: []float64{1, 0, 0, 0, 0, 1, 0, 1, 0},
		},
		{name: "index out of range", data: []float64{3}, classes: 3, wantErr: true},
		{name: "non-integer index", data: []float64{1.5}, classes: 3, wantErr: true},
		{name: "negative index", data: []float64{-1}, classes: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustTensor(t, tt.data, len(tt.data))
			got, err := OneHot(in, tt.classes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OneHot() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			want := mustTensor(t, tt.want, len(tt.data), tt.classes)
			if !Equal(got, want) {
				t.Errorf("OneHot() = %v, want %v", got.Data(), want.Data())
			}
		})
	}
}

func TestNarrow(t *testing.T) {
	// (2,4) 矩阵沿最后一维取前 3 列
	in := mustTensor(t, []float64{0, 1, 2, 3, 4, 5, 6, 7}, 2, 4)
	got, err := Narrow(in, -1, 0, 3)
	if err != nil {
		t.Fatalf("Narrow() error = %v", err)
	}
	want := mustTensor(t, []float64{0, 1, 2, 4, 5, 6}, 2, 3)
	if !Equal(got, want) {
		t.Errorf("Narrow() = %v, want %v", got.Data(), want.Data())
	}

	if _, err := Narrow(in, 1, 2, 3); err == nil {
		t.Error("Narrow() past the end of a dim should fail")
	}
}

func TestUnsqueezeRepeat(t *testing.T) {
	in := mustTensor(t, []float64{1, 2, 3}, 3)
	un, err := Unsqueeze(in, 1)
	if err != nil {
		t.Fatalf("Unsqueeze() error = %v", err)
	}
	if !sameShape(un.Shape(), []int{3, 1}) {
		t.Fatalf("Unsqueeze() shape = %v, want [3 1]", un.Shape())
	}
	rep, err := Repeat(un, 1, 2)
	if err != nil {
		t.Fatalf("Repeat() error = %v", err)
	}
	want := mustTensor(t, []float64{1, 1, 2, 2, 3, 3}, 3, 2)
	if !Equal(rep, want) {
		t.Errorf("Repeat() = %v, want %v", rep.Data(), want.Data())
	}
}

func TestOuter(t *testing.T) {
	x := mustTensor(t, []float64{1, 2, 3}, 1, 3)
	y := mustTensor(t, []float64{10, 20, 30, 40}, 1, 4)
	got, err := Outer(x, y)
	if err != nil {
		t.Fatalf("Outer() error = %v", err)
	}
	if !sameShape(got.Shape(), []int{1, 12}) {
		t.Fatalf("Outer() shape = %v, want [1 12]", got.Shape())
	}
	want := mustTensor(t, []float64{
		10, 20, 30, 40,
		20, 40, 60, 80,
		30, 60, 90, 120,
	}, 1, 12)
	if !Equal(got, want) {
		t.Errorf("Outer() = %v, want %v", got.Data(), want.Data())
	}

	bad := mustTensor(t, []float64{1, 2, 3, 4}, 2, 2)
	if _, err := Outer(x, bad); err == nil {
		t.Error("Outer() with mismatched leading dims should fail")
	}
}

func TestBroadcastTo(t *testing.T) {
	in := mustTensor(t, []float64{1, 2, 3}, 1, 3)
	got, err := BroadcastTo(in, []int{2, 3})
	if err != nil {
		t.Fatalf("BroadcastTo() error = %v", err)
	}
	want := mustTensor(t, []float64{1, 2, 3, 1, 2, 3}, 2, 3)
	if !Equal(got, want) {
		t.Errorf("BroadcastTo() = %v, want %v", got.Data(), want.Data())
	}

	if _, err := BroadcastTo(in, []int{2, 4}); err == nil {
		t.Error("BroadcastTo() with incompatible shape should fail")
	}
}

func TestCat(t *testing.T) {
	a := mustTensor(t, []float64{1, 2, 3, 4}, 2, 2)
	b := mustTensor(t, []float64{5, 6}, 2, 1)
	got, err := Cat([]*Tensor{a, b}, 1)
	if err != nil {
		t.Fatalf("Cat() error = %v", err)
	}
	want := mustTensor(t, []float64{1, 2, 5, 3, 4, 6}, 2, 3)
	if !Equal(got, want) {
		t.Errorf("Cat() = %v, want %v", got.Data(), want.Data())
	}

	if _, err := Cat([]*Tensor{a, mustTensor(t, []float64{1, 2, 3}, 3, 1)}, 1); err == nil {
		t.Error("Cat() with mismatched non-cat dims should fail")
	}
}

func TestBroadcastForCat(t *testing.T) {
	// (10,3,5) 与 (1,3,3) 在 dim=2 上广播后拼接为 (10,3,8)
	a := New(10, 3, 5)
	bdata := make([]float64, 9)
	for i := range bdata {
		bdata[i] = float64(i)
	}
	b := mustTensor(t, bdata, 1, 3, 3)

	bcast, err := BroadcastForCat([]*Tensor{a, b}, 2)
	if err != nil {
		t.Fatalf("BroadcastForCat() error = %v", err)
	}
	if !sameShape(bcast[0].Shape(), []int{10, 3, 5}) || !sameShape(bcast[1].Shape(), []int{10, 3, 3}) {
		t.Fatalf("BroadcastForCat() shapes = %v, %v", bcast[0].Shape(), bcast[1].Shape())
	}
	got, err := Cat(bcast, 2)
	if err != nil {
		t.Fatalf("Cat() error = %v", err)
	}
	if !sameShape(got.Shape(), []int{10, 3, 8}) {
		t.Fatalf("Cat() shape = %v, want [10 3 8]", got.Shape())
	}
	// 广播出的批次必须是同一份内容的复制
	for batch := 0; batch < 10; batch++ {
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				if got.At(batch, r, 5+c) != b.At(0, r, c) {
					t.Fatalf("broadcast batch %d differs at (%d,%d)", batch, r, c)
				}
			}
		}
	}
}
