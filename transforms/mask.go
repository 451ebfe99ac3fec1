package transforms

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// MaskByPresence 要求字段为同形状的 (value, presence) 对，
// 并把字段替换为 value * presence，清零无效位置。
type MaskByPresence struct {
	Keys []string
}

func NewMaskByPresence(keys []string) *MaskByPresence { return &MaskByPresence{Keys: keys} }

func (*MaskByPresence) Name() string        { return "presence.mask_by_presence" }
func (*MaskByPresence) Kind() pipeline.Kind { return pipeline.KindPresence }

func (t *MaskByPresence) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range t.Keys {
		pair, err := pairField(rec, k)
		if err != nil {
			return nil, err
		}
		masked, err := tensor.Mul(pair.Value, pair.Presence)
		if err != nil {
			return nil, errShape(k, "value shape %s does not match presence shape %s",
				shapeString(pair.Value.Shape()), shapeString(pair.Presence.Shape()))
		}
		rec[k] = core.Dense{Tensor: masked}
	}
	return rec, nil
}
