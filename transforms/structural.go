package transforms

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
)

// Rename 按平行列表把字段批量改名，返回重建的新 Record
// 而不是就地修改。两个名字列表必须等长（构建期检查）。
type Rename struct {
	oldNames []string
	newNames []string
}

func NewRename(oldNames, newNames []string) (*Rename, error) {
	if len(oldNames) != len(newNames) {
		return nil, errMisconfigured("rename lists differ in length: %d old vs %d new", len(oldNames), len(newNames))
	}
	return &Rename{oldNames: oldNames, newNames: newNames}, nil
}

func (*Rename) Name() string        { return "structural.rename" }
func (*Rename) Kind() pipeline.Kind { return pipeline.KindStructural }

func (t *Rename) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	out := rec.Clone()
	for i, old := range t.oldNames {
		v, ok := out[old]
		if !ok {
			return nil, errMissingField(old)
		}
		delete(out, old)
		out[t.newNames[i]] = v
	}
	return out, nil
}

// Filter 二选一地裁剪 Record：
//   - keep 模式：只保留列出的字段，列表中缺失的字段静默跳过
//   - remove 模式：删除列出的字段（若存在），其余全部保留
//
// 两种模式必须且只能配置一种，同时配置或都不配置是构建期错误。
type Filter struct {
	keepKeys   []string
	removeKeys []string
}

// FilterOption 配置 Filter 的模式。
type FilterOption func(*Filter)

// WithKeepKeys 启用 keep 模式。
func WithKeepKeys(keys []string) FilterOption {
	return func(t *Filter) { t.keepKeys = keys }
}

// WithRemoveKeys 启用 remove 模式。
func WithRemoveKeys(keys []string) FilterOption {
	return func(t *Filter) { t.removeKeys = keys }
}

func NewFilter(opts ...FilterOption) (*Filter, error) {
	t := &Filter{}
	for _, opt := range opts {
		opt(t)
	}
	if (t.keepKeys == nil) == (t.removeKeys == nil) {
		return nil, errMisconfigured("filter requires exactly one of keep-keys or remove-keys")
	}
	return t, nil
}

func (*Filter) Name() string        { return "structural.filter" }
func (*Filter) Kind() pipeline.Kind { return pipeline.KindStructural }

func (t *Filter) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	if t.keepKeys != nil {
		out := make(core.Record, len(t.keepKeys))
		for _, k := range t.keepKeys {
			if v, ok := rec[k]; ok {
				out[k] = v
			}
		}
		return out, nil
	}
	out := rec.Clone()
	for _, k := range t.removeKeys {
		delete(out, k)
	}
	return out, nil
}
