// Package tensor 提供定长形状的稠密 float64 张量及其基础运算。
//
// 设计原则：
//   - 行优先（row-major）内存布局，Reshape 只变更形状不搬运数据
//   - 所有形状不匹配都返回带有实际形状信息的 error，不做隐式纠正
//   - Tensor 本身不做并发保护，由调用方保证单 goroutine 使用
package tensor

import (
	"fmt"
	"math"
)

// Tensor 是一个 N 维稠密张量，元素类型固定为 float64。
type Tensor struct {
	shape []int
	data  []float64
}

// New 创建指定形状的全零张量。
func New(shape ...int) *Tensor {
	return Full(0, shape...)
}

// Ones 创建指定形状的全一张量。
func Ones(shape ...int) *Tensor {
	return Full(1, shape...)
}

// Full 创建指定形状、所有元素均为 value 的张量。
func Full(value float64, shape ...int) *Tensor {
	n := numElements(shape)
	data := make([]float64, n)
	if value != 0 {
		for i := range data {
			data[i] = value
		}
	}
	return &Tensor{shape: cloneShape(shape), data: data}
}

// Eye 创建 size x size 的单位矩阵。
func Eye(size int) *Tensor {
	t := New(size, size)
	for i := 0; i < size; i++ {
		t.data[i*size+i] = 1
	}
	return t
}

// Arange 创建 [start, stop) 区间内步长为 step 的一维张量。
func Arange(start, stop, step float64) *Tensor {
	var data []float64
	for v := start; v < stop; v += step {
		data = append(data, v)
	}
	return &Tensor{shape: []int{len(data)}, data: data}
}

// FromSlice 使用给定数据和形状创建张量，数据长度必须与形状一致。
func FromSlice(data []float64, shape ...int) (*Tensor, error) {
	if len(data) != numElements(shape) {
		return nil, fmt.Errorf("tensor: data length %d does not fit shape %v", len(data), shape)
	}
	d := make([]float64, len(data))
	copy(d, data)
	return &Tensor{shape: cloneShape(shape), data: d}, nil
}

// FromRows 使用逐行数据创建二维张量，所有行长度必须一致。
func FromRows(rows [][]float64) (*Tensor, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("tensor: row %d has length %d, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &Tensor{shape: []int{len(rows), cols}, data: data}, nil
}

// Shape 返回形状的副本。
func (t *Tensor) Shape() []int { return cloneShape(t.shape) }

// Dims 返回维度数。
func (t *Tensor) Dims() int { return len(t.shape) }

// Size 返回第 i 维的长度。
func (t *Tensor) Size(i int) int { return t.shape[i] }

// Len 返回元素总数。
func (t *Tensor) Len() int { return len(t.data) }

// Data 返回底层数据切片（非副本，调用方不应越界修改）。
func (t *Tensor) Data() []float64 { return t.data }

// Clone 返回深拷贝。
func (t *Tensor) Clone() *Tensor {
	d := make([]float64, len(t.data))
	copy(d, t.data)
	return &Tensor{shape: cloneShape(t.shape), data: d}
}

// At 返回指定下标处的元素。
func (t *Tensor) At(idx ...int) float64 {
	return t.data[t.offset(idx)]
}

// Set 设置指定下标处的元素。
func (t *Tensor) Set(value float64, idx ...int) {
	t.data[t.offset(idx)] = value
}

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: index %v does not match shape %v", idx, t.shape))
	}
	off := 0
	for i, ix := range idx {
		if ix < 0 || ix >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", idx, t.shape))
		}
		off = off*t.shape[i] + ix
	}
	return off
}

// Reshape 返回共享底层数据的新形状视图。
// 最多允许一个维度为 -1，表示由元素总数推断该维长度。
func (t *Tensor) Reshape(shape ...int) (*Tensor, error) {
	out := cloneShape(shape)
	infer := -1
	known := 1
	for i, s := range out {
		switch {
		case s == -1:
			if infer >= 0 {
				return nil, fmt.Errorf("tensor: at most one inferred dim allowed, got %v", shape)
			}
			infer = i
		case s < 0:
			return nil, fmt.Errorf("tensor: invalid dim %d in shape %v", s, shape)
		default:
			known *= s
		}
	}
	if infer >= 0 {
		if known == 0 || len(t.data)%known != 0 {
			return nil, fmt.Errorf("tensor: cannot infer dim for shape %v from %d elements", shape, len(t.data))
		}
		out[infer] = len(t.data) / known
		known *= out[infer]
	}
	if known != len(t.data) {
		return nil, fmt.Errorf("tensor: shape %v does not fit %d elements", shape, len(t.data))
	}
	return &Tensor{shape: out, data: t.data}, nil
}

// Equal 判断两个张量形状与元素是否完全相等（NaN 与 NaN 视为相等）。
func Equal(a, b *Tensor) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !sameShape(a.shape, b.shape) {
		return false
	}
	for i := range a.data {
		x, y := a.data[i], b.data[i]
		if x != y && !(math.IsNaN(x) && math.IsNaN(y)) {
			return false
		}
	}
	return true
}

// SameShape 判断两个张量形状是否一致。
func SameShape(a, b *Tensor) bool {
	return sameShape(a.shape, b.shape)
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneShape(shape []int) []int {
	out := make([]int, len(shape))
	copy(out, shape)
	return out
}

func numElements(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// strides 返回行优先布局下每一维的步长。
func strides(shape []int) []int {
	out := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		out[i] = acc
		acc *= shape[i]
	}
	return out
}

// normDim 把可能为负的维度下标归一化到 [0, dims) 区间。
func normDim(dim, dims int) (int, error) {
	d := dim
	if d < 0 {
		d += dims
	}
	if d < 0 || d >= dims {
		return 0, fmt.Errorf("tensor: dim %d out of range for %d dims", dim, dims)
	}
	return d, nil
}
