package transforms

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// ValuePresence 把加载器的扁平约定适配为 (value, presence) 对：
// 对每个字段 x，若存在兄弟字段 x_presence，则把 x 替换为
// (x, x_presence) 对并删除 x_presence。没有兄弟字段的字段保持原样。
type ValuePresence struct{}

func NewValuePresence() *ValuePresence { return &ValuePresence{} }

func (*ValuePresence) Name() string        { return "presence.value_presence" }
func (*ValuePresence) Kind() pipeline.Kind { return pipeline.KindPresence }

func (*ValuePresence) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range rec.Keys() {
		presenceKey := k + PresenceSuffix
		value, okValue := rec.Dense(k)
		presence, okPresence := rec.Dense(presenceKey)
		if !okValue || !okPresence {
			continue
		}
		rec[k] = core.ValuePresence{Value: value, Presence: presence}
		delete(rec, presenceKey)
	}
	return rec, nil
}

// SelectValuePresenceColumns 从 (value, presence) 源字段中
// 选出指定列，写入目标字段。源字段必须是 2-D 的 value/presence 对。
type SelectValuePresenceColumns struct {
	Source  string
	Dest    string
	Indices []int
}

func NewSelectValuePresenceColumns(source, dest string, indices []int) *SelectValuePresenceColumns {
	return &SelectValuePresenceColumns{Source: source, Dest: dest, Indices: indices}
}

func (*SelectValuePresenceColumns) Name() string        { return "presence.select_columns" }
func (*SelectValuePresenceColumns) Kind() pipeline.Kind { return pipeline.KindPresence }

func (t *SelectValuePresenceColumns) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	pair, err := pairField(rec, t.Source)
	if err != nil {
		return nil, err
	}
	value, err := selectColumns(t.Source, pair.Value, t.Indices)
	if err != nil {
		return nil, err
	}
	presence, err := selectColumns(t.Source, pair.Presence, t.Indices)
	if err != nil {
		return nil, err
	}
	rec[t.Dest] = core.ValuePresence{Value: value, Presence: presence}
	return rec, nil
}

func selectColumns(key string, t *tensor.Tensor, indices []int) (*tensor.Tensor, error) {
	if t.Dims() != 2 {
		return nil, errShape(key, "want 2-D value/presence, got shape %s", shapeString(t.Shape()))
	}
	rows := t.Size(0)
	out := tensor.New(rows, len(indices))
	for _, c := range indices {
		if c < 0 || c >= t.Size(1) {
			return nil, errShape(key, "column index %d out of range for shape %s", c, shapeString(t.Shape()))
		}
	}
	for i := 0; i < rows; i++ {
		for j, c := range indices {
			out.Set(t.At(i, c), i, j)
		}
	}
	return out, nil
}
