package transforms

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// OneHotActions 对动作下标字段做 one-hot 编码。
// 字段取值范围是 [0, NumActions] 闭区间，其中 NumActions 表示
// “无效/空动作”哨兵：先按 NumActions+1 类编码，再裁掉最后一列，
// 使哨兵值得到全零向量而不是越界错误。
type OneHotActions struct {
	Keys       []string
	NumActions int
}

func NewOneHotActions(keys []string, numActions int) (*OneHotActions, error) {
	if numActions <= 0 {
		return nil, errMisconfigured("one-hot actions requires a positive action count, got %d", numActions)
	}
	return &OneHotActions{Keys: keys, NumActions: numActions}, nil
}

func (*OneHotActions) Name() string        { return "presence.one_hot_actions" }
func (*OneHotActions) Kind() pipeline.Kind { return pipeline.KindPresence }

func (t *OneHotActions) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range t.Keys {
		d, err := denseField(rec, k)
		if err != nil {
			return nil, err
		}
		encoded, err := tensor.OneHot(d.Tensor, t.NumActions+1)
		if err != nil {
			return nil, errShape(k, "%v", err)
		}
		trimmed, err := tensor.Narrow(encoded, -1, 0, t.NumActions)
		if err != nil {
			return nil, errShape(k, "%v", err)
		}
		rec[k] = core.Dense{Tensor: trimmed}
	}
	return rec, nil
}
