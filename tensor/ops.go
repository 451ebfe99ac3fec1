package tensor

import (
	"fmt"
	"math"
)

// Mul 返回两个同形状张量的逐元素乘积。
func Mul(a, b *Tensor) (*Tensor, error) {
	if !sameShape(a.shape, b.shape) {
		return nil, fmt.Errorf("tensor: shape mismatch %v vs %v", a.shape, b.shape)
	}
	out := a.Clone()
	for i := range out.data {
		out.data[i] *= b.data[i]
	}
	return out, nil
}

// ScrubNaN 清洗 (value, presence) 对：value 中为 NaN 的位置，
// value 与 presence 同时置零。返回新张量，不修改输入。
func ScrubNaN(value, presence *Tensor) (*Tensor, *Tensor, error) {
	if !sameShape(value.shape, presence.shape) {
		return nil, nil, fmt.Errorf("tensor: value shape %v does not match presence shape %v", value.shape, presence.shape)
	}
	v, p := value.Clone(), presence.Clone()
	for i := range v.data {
		if math.IsNaN(v.data[i]) {
			v.data[i] = 0
			p.data[i] = 0
		}
	}
	return v, p, nil
}

// OneHot 对任意形状的整数下标张量做 one-hot 编码，
// 输出形状为原形状追加一维 classes。
// 元素必须是 [0, classes) 内的整数，否则返回 error。
func OneHot(t *Tensor, classes int) (*Tensor, error) {
	if classes <= 0 {
		return nil, fmt.Errorf("tensor: one-hot classes must be positive, got %d", classes)
	}
	outShape := append(t.Shape(), classes)
	out := New(outShape...)
	for i, v := range t.data {
		idx := int(v)
		if float64(idx) != v || idx < 0 || idx >= classes {
			return nil, fmt.Errorf("tensor: one-hot index %v out of range [0, %d)", v, classes)
		}
		out.data[i*classes+idx] = 1
	}
	return out, nil
}

// Narrow 沿 dim 维截取 [start, start+length) 区间。
func Narrow(t *Tensor, dim, start, length int) (*Tensor, error) {
	d, err := normDim(dim, len(t.shape))
	if err != nil {
		return nil, err
	}
	if start < 0 || length < 0 || start+length > t.shape[d] {
		return nil, fmt.Errorf("tensor: narrow [%d, %d) out of range for dim %d of shape %v", start, start+length, d, t.shape)
	}
	outShape := t.Shape()
	outShape[d] = length
	out := New(outShape...)

	inner := 1
	for i := d + 1; i < len(t.shape); i++ {
		inner *= t.shape[i]
	}
	outer := len(t.data) / (t.shape[d] * inner)
	for o := 0; o < outer; o++ {
		src := o*t.shape[d]*inner + start*inner
		dst := o * length * inner
		copy(out.data[dst:dst+length*inner], t.data[src:src+length*inner])
	}
	return out, nil
}

// Unsqueeze 在 dim 位置插入一个长度为 1 的新维度。
// dim 允许取 [-(dims+1), dims]，与追加到末尾等价的负下标一致。
func Unsqueeze(t *Tensor, dim int) (*Tensor, error) {
	dims := len(t.shape)
	d := dim
	if d < 0 {
		d += dims + 1
	}
	if d < 0 || d > dims {
		return nil, fmt.Errorf("tensor: unsqueeze dim %d out of range for %d dims", dim, dims)
	}
	outShape := make([]int, 0, dims+1)
	outShape = append(outShape, t.shape[:d]...)
	outShape = append(outShape, 1)
	outShape = append(outShape, t.shape[d:]...)
	return &Tensor{shape: outShape, data: t.data}, nil
}

// Repeat 沿 dim 维把张量平铺 n 次，输出该维长度为原来的 n 倍。
func Repeat(t *Tensor, dim, n int) (*Tensor, error) {
	d, err := normDim(dim, len(t.shape))
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("tensor: repeat count must be positive, got %d", n)
	}
	outShape := t.Shape()
	outShape[d] *= n
	out := New(outShape...)

	inner := 1
	for i := d + 1; i < len(t.shape); i++ {
		inner *= t.shape[i]
	}
	block := t.shape[d] * inner
	outer := len(t.data) / block
	for o := 0; o < outer; o++ {
		src := t.data[o*block : (o+1)*block]
		for r := 0; r < n; r++ {
			dst := o*block*n + r*block
			copy(out.data[dst:dst+block], src)
		}
	}
	return out, nil
}

// Outer 计算两个张量最后一维向量的外积并展平。
// 除最后一维外的前置维度必须完全一致；
// 输入形状 (..., m) 与 (..., n) 的输出形状为 (..., m*n)。
func Outer(x, y *Tensor) (*Tensor, error) {
	if len(x.shape) == 0 || len(y.shape) == 0 {
		return nil, fmt.Errorf("tensor: outer requires at least 1-D inputs")
	}
	if !sameShape(x.shape[:len(x.shape)-1], y.shape[:len(y.shape)-1]) {
		return nil, fmt.Errorf("tensor: outer leading dims mismatch %v vs %v", x.shape, y.shape)
	}
	m := x.shape[len(x.shape)-1]
	n := y.shape[len(y.shape)-1]
	lead := numElements(x.shape[:len(x.shape)-1])
	outShape := x.Shape()
	outShape[len(outShape)-1] = m * n
	out := New(outShape...)
	for l := 0; l < lead; l++ {
		xs := x.data[l*m : (l+1)*m]
		ys := y.data[l*n : (l+1)*n]
		dst := out.data[l*m*n : (l+1)*m*n]
		for i, xv := range xs {
			for j, yv := range ys {
				dst[i*n+j] = xv * yv
			}
		}
	}
	return out, nil
}

// BroadcastTo 把张量广播到目标形状并物化为新张量。
// 按 numpy 规则从右对齐：每一维长度必须相等或为 1，维数不足时在左侧补 1。
func BroadcastTo(t *Tensor, shape []int) (*Tensor, error) {
	if len(shape) < len(t.shape) {
		return nil, fmt.Errorf("tensor: cannot broadcast shape %v to fewer dims %v", t.shape, shape)
	}
	// 左侧补 1 对齐维数
	src := make([]int, len(shape))
	for i := range src {
		src[i] = 1
	}
	copy(src[len(shape)-len(t.shape):], t.shape)
	srcStrides := strides(src)
	for i := range src {
		if src[i] == shape[i] {
			continue
		}
		if src[i] != 1 {
			return nil, fmt.Errorf("tensor: cannot broadcast shape %v to %v", t.shape, shape)
		}
		srcStrides[i] = 0 // 广播维：读取时不前进
	}
	out := New(shape...)
	idx := make([]int, len(shape))
	for i := range out.data {
		off := 0
		for d := range idx {
			off += idx[d] * srcStrides[d]
		}
		out.data[i] = t.data[off]
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out, nil
}

// BroadcastShapes 计算若干形状按 numpy 规则广播后的公共形状。
func BroadcastShapes(shapes ...[]int) ([]int, error) {
	dims := 0
	for _, s := range shapes {
		if len(s) > dims {
			dims = len(s)
		}
	}
	out := make([]int, dims)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		off := dims - len(s)
		for i, v := range s {
			switch {
			case out[off+i] == 1:
				out[off+i] = v
			case v != 1 && v != out[off+i]:
				return nil, fmt.Errorf("tensor: shapes %v are not broadcastable", shapes)
			}
		}
	}
	return out, nil
}

// Cat 沿 dim 维拼接若干张量。所有输入维数必须一致，
// 除 dim 外的各维长度必须相等。
func Cat(tensors []*Tensor, dim int) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("tensor: cat of zero tensors")
	}
	dims := len(tensors[0].shape)
	d, err := normDim(dim, dims)
	if err != nil {
		return nil, err
	}
	catSize := 0
	for _, t := range tensors {
		if len(t.shape) != dims {
			return nil, fmt.Errorf("tensor: cat dims mismatch %v vs %v", tensors[0].shape, t.shape)
		}
		for i := 0; i < dims; i++ {
			if i != d && t.shape[i] != tensors[0].shape[i] {
				return nil, fmt.Errorf("tensor: cat shape mismatch %v vs %v at dim %d", tensors[0].shape, t.shape, i)
			}
		}
		catSize += t.shape[d]
	}
	outShape := tensors[0].Shape()
	outShape[d] = catSize
	out := New(outShape...)

	inner := 1
	for i := d + 1; i < dims; i++ {
		inner *= outShape[i]
	}
	outer := 1
	for i := 0; i < d; i++ {
		outer *= outShape[i]
	}
	for o := 0; o < outer; o++ {
		dst := o * catSize * inner
		for _, t := range tensors {
			block := t.shape[d] * inner
			copy(out.data[dst:dst+block], t.data[o*block:(o+1)*block])
			dst += block
		}
	}
	return out, nil
}

// BroadcastForCat 先把所有张量在除 dim 外的维度上广播到公共形状，
// 使它们可以沿 dim 拼接。所有输入的维数必须一致。
//
// 例：形状 (10,3,5) 与 (1,3,3) 在 dim=2 上广播为 (10,3,5) 与 (10,3,3)。
func BroadcastForCat(tensors []*Tensor, dim int) ([]*Tensor, error) {
	if len(tensors) == 0 {
		return nil, nil
	}
	dims := len(tensors[0].shape)
	d, err := normDim(dim, dims)
	if err != nil {
		return nil, err
	}
	rest := make([][]int, len(tensors))
	for i, t := range tensors {
		if len(t.shape) != dims {
			return nil, fmt.Errorf("tensor: cat dims mismatch %v vs %v", tensors[0].shape, t.shape)
		}
		s := t.Shape()
		rest[i] = append(s[:d:d], s[d+1:]...)
	}
	common, err := BroadcastShapes(rest...)
	if err != nil {
		return nil, err
	}
	out := make([]*Tensor, len(tensors))
	for i, t := range tensors {
		target := make([]int, 0, dims)
		target = append(target, common[:d]...)
		target = append(target, t.shape[d])
		target = append(target, common[d:]...)
		bt, err := BroadcastTo(t, target)
		if err != nil {
			return nil, err
		}
		out[i] = bt
	}
	return out, nil
}
