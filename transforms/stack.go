package transforms

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// StackDenseFixedSizeArray 把字段固定为 (batch, size) 的稠密张量：
//   - 已是稠密张量：只校验形状，不改动数据
//   - 逐样本的 (value, presence) 列表：丢弃 presence，
//     按批次维拼接 value 并重排为 (batch, size)
type StackDenseFixedSizeArray struct {
	Keys []string
	Size int
}

func NewStackDenseFixedSizeArray(keys []string, size int) (*StackDenseFixedSizeArray, error) {
	if size <= 0 {
		return nil, errMisconfigured("stack requires a positive row size, got %d", size)
	}
	return &StackDenseFixedSizeArray{Keys: keys, Size: size}, nil
}

func (*StackDenseFixedSizeArray) Name() string        { return "presence.stack_dense" }
func (*StackDenseFixedSizeArray) Kind() pipeline.Kind { return pipeline.KindPresence }

func (t *StackDenseFixedSizeArray) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range t.Keys {
		raw, ok := rec[k]
		if !ok {
			return nil, errMissingField(k)
		}
		switch v := raw.(type) {
		case core.Dense:
			if !(v.Tensor.Dims() == 2 && v.Tensor.Size(1) == t.Size) {
				return nil, errShape(k, "want shape (batch, %d), got %s", t.Size, shapeString(v.Tensor.Shape()))
			}
		case core.ValuePresenceList:
			var flat []float64
			for _, pair := range v {
				flat = append(flat, pair.Value.Data()...)
			}
			if t.Size == 0 || len(flat)%t.Size != 0 {
				return nil, errShape(k, "%d collated elements do not fit rows of size %d", len(flat), t.Size)
			}
			stacked, err := tensor.FromSlice(flat, len(flat)/t.Size, t.Size)
			if err != nil {
				return nil, errShape(k, "%v", err)
			}
			rec[k] = core.Dense{Tensor: stacked}
		default:
			return nil, errType(k, raw, "dense or value_presence_list")
		}
	}
	return rec, nil
}
