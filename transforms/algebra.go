package transforms

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// AppendConstant 沿 Dim 维在张量前部补一列常量，
// 例如给线性回归输入补一列 1 作为截距项。
type AppendConstant struct {
	Keys  []string
	Dim   int
	Const float64
}

func NewAppendConstant(keys []string, dim int, c float64) *AppendConstant {
	return &AppendConstant{Keys: keys, Dim: dim, Const: c}
}

func (*AppendConstant) Name() string        { return "algebra.append_constant" }
func (*AppendConstant) Kind() pipeline.Kind { return pipeline.KindAlgebra }

func (t *AppendConstant) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range t.Keys {
		d, err := denseField(rec, k)
		if err != nil {
			return nil, err
		}
		shape := d.Tensor.Shape()
		if len(shape) == 0 {
			return nil, errShape(k, "cannot append a column to a 0-D tensor")
		}
		shape[len(shape)-1] = 1
		extra := tensor.Full(t.Const, shape...)
		out, err := tensor.Cat([]*tensor.Tensor{extra, d.Tensor}, t.Dim)
		if err != nil {
			return nil, errShape(k, "%v", err)
		}
		rec[k] = core.Dense{Tensor: out}
	}
	return rec, nil
}

// UnsqueezeRepeat 在 Dim 位置插入一个新维度，
// 并可选地沿该维把张量平铺 NumRepeat 次。
type UnsqueezeRepeat struct {
	Keys      []string
	Dim       int
	NumRepeat int
}

func NewUnsqueezeRepeat(keys []string, dim, numRepeat int) *UnsqueezeRepeat {
	if numRepeat == 0 {
		numRepeat = 1
	}
	return &UnsqueezeRepeat{Keys: keys, Dim: dim, NumRepeat: numRepeat}
}

func (*UnsqueezeRepeat) Name() string        { return "algebra.unsqueeze_repeat" }
func (*UnsqueezeRepeat) Kind() pipeline.Kind { return pipeline.KindAlgebra }

func (t *UnsqueezeRepeat) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range t.Keys {
		d, err := denseField(rec, k)
		if err != nil {
			return nil, err
		}
		out, err := tensor.Unsqueeze(d.Tensor, t.Dim)
		if err != nil {
			return nil, errShape(k, "%v", err)
		}
		if t.NumRepeat != 1 {
			out, err = tensor.Repeat(out, t.Dim, t.NumRepeat)
			if err != nil {
				return nil, errShape(k, "%v", err)
			}
		}
		rec[k] = core.Dense{Tensor: out}
	}
	return rec, nil
}

// OuterProduct 对两个字段逐批次样本计算最后一维向量的外积并展平，
// 结果写入输出字段。DropInputs 为 true 时删除两个输入字段。
type OuterProduct struct {
	Key1       string
	Key2       string
	OutputKey  string
	DropInputs bool
}

func NewOuterProduct(key1, key2, outputKey string, dropInputs bool) *OuterProduct {
	return &OuterProduct{Key1: key1, Key2: key2, OutputKey: outputKey, DropInputs: dropInputs}
}

func (*OuterProduct) Name() string        { return "algebra.outer_product" }
func (*OuterProduct) Kind() pipeline.Kind { return pipeline.KindAlgebra }

func (t *OuterProduct) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	x, err := denseField(rec, t.Key1)
	if err != nil {
		return nil, err
	}
	y, err := denseField(rec, t.Key2)
	if err != nil {
		return nil, err
	}
	prod, err := tensor.Outer(x.Tensor, y.Tensor)
	if err != nil {
		return nil, errShape(t.OutputKey, "%v", err)
	}
	rec[t.OutputKey] = core.Dense{Tensor: prod}
	if t.DropInputs {
		delete(rec, t.Key1)
		delete(rec, t.Key2)
	}
	return rec, nil
}

// GetEye 把一个 Size x Size 的单位矩阵作为新字段写入 Record，
// 与已有数据无关。
type GetEye struct {
	Key  string
	Size int
}

func NewGetEye(key string, size int) (*GetEye, error) {
	if size <= 0 {
		return nil, errMisconfigured("identity size must be positive, got %d", size)
	}
	return &GetEye{Key: key, Size: size}, nil
}

func (*GetEye) Name() string        { return "algebra.get_eye" }
func (*GetEye) Kind() pipeline.Kind { return pipeline.KindAlgebra }

func (t *GetEye) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	rec[t.Key] = core.Dense{Tensor: tensor.Eye(t.Size)}
	return rec, nil
}

// Cat 沿 Dim 维拼接一组字段，结果写入输出字段。
// Broadcast 为 true 时，先把所有输入在除 Dim 外的维度上
// 广播到公共形状，使 leading 形状不同但特征布局一致的张量可以合并。
type Cat struct {
	InputKeys []string
	OutputKey string
	Dim       int
	Broadcast bool
}

func NewCat(inputKeys []string, outputKey string, dim int, broadcast bool) (*Cat, error) {
	if len(inputKeys) == 0 {
		return nil, errMisconfigured("cat requires at least one input field")
	}
	return &Cat{InputKeys: inputKeys, OutputKey: outputKey, Dim: dim, Broadcast: broadcast}, nil
}

func (*Cat) Name() string        { return "algebra.cat" }
func (*Cat) Kind() pipeline.Kind { return pipeline.KindAlgebra }

func (t *Cat) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	tensors := make([]*tensor.Tensor, 0, len(t.InputKeys))
	for _, k := range t.InputKeys {
		d, err := denseField(rec, k)
		if err != nil {
			return nil, err
		}
		tensors = append(tensors, d.Tensor)
	}
	var err error
	if t.Broadcast {
		tensors, err = tensor.BroadcastForCat(tensors, t.Dim)
		if err != nil {
			return nil, errShape(t.OutputKey, "%v", err)
		}
	}
	out, err := tensor.Cat(tensors, t.Dim)
	if err != nil {
		return nil, errShape(t.OutputKey, "%v", err)
	}
	rec[t.OutputKey] = core.Dense{Tensor: out}
	return rec, nil
}
