// Package loader 是 Record 的生产侧边界：
// 把外部数据源的原始批次构建为符合流水线约定的 core.Record。
package loader

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// Source 逐批产出 Record。数据耗尽时返回 (nil, nil)。
type Source interface {
	Next(ctx context.Context) (core.Record, error)
}

// SliceSource 在内存中的 Record 切片上实现 Source，用于测试与回放。
type SliceSource struct {
	records []core.Record
	next    int
}

func NewSliceSource(records []core.Record) *SliceSource {
	return &SliceSource{records: records}
}

func (s *SliceSource) Next(_ context.Context) (core.Record, error) {
	if s.next >= len(s.records) {
		return nil, nil
	}
	rec := s.records[s.next]
	s.next++
	return rec, nil
}

// DenseRecord 把逐行的原始列构建为稠密字段 Record。
// 每个字段的值是 (batch, dim) 的行切片；presence 兄弟字段
// 按加载器约定命名为 "{field}_presence"。
func DenseRecord(columns map[string][][]float64) (core.Record, error) {
	rec := make(core.Record, len(columns))
	for name, rows := range columns {
		t, err := tensor.FromRows(rows)
		if err != nil {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeShapeViolation, name, "%v", err)
		}
		rec[name] = core.Dense{Tensor: t}
	}
	return rec, nil
}
