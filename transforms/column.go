package transforms

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// ColumnVector 把异构字段表示统一成 (batch, 1) 的列向量：
//   - (value, presence) 对：取 value，丢弃 presence
//   - 原始标量列：转为一维张量
//   - 稠密张量：原样使用
//
// 只接受 1-D 或第二维为 1 的 2-D 值；其余形状是 SHAPE_VIOLATION，
// 其余表示是 TYPE_VIOLATION（报告具体表示名）。
type ColumnVector struct {
	Keys []string
}

func NewColumnVector(keys []string) *ColumnVector { return &ColumnVector{Keys: keys} }

func (*ColumnVector) Name() string        { return "presence.column_vector" }
func (*ColumnVector) Kind() pipeline.Kind { return pipeline.KindPresence }

func (t *ColumnVector) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range t.Keys {
		raw, ok := rec[k]
		if !ok {
			return nil, errMissingField(k)
		}

		var value *tensor.Tensor
		switch v := raw.(type) {
		case core.ValuePresence:
			value = v.Value
		case core.Scalars:
			var err error
			value, err = tensor.FromSlice(v, len(v))
			if err != nil {
				return nil, errShape(k, "%v", err)
			}
		case core.Dense:
			value = v.Tensor
		default:
			return nil, errType(k, raw, "dense, value_presence or scalars")
		}

		if !(value.Dims() == 1 || (value.Dims() == 2 && value.Size(1) == 1)) {
			return nil, errShape(k, "invalid shape %s for a column vector", shapeString(value.Shape()))
		}
		column, err := value.Reshape(-1, 1)
		if err != nil {
			return nil, errShape(k, "%v", err)
		}
		rec[k] = core.Dense{Tensor: column}
	}
	return rec, nil
}
