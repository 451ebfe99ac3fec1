package loader

import (
	"context"
	"strings"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// FeastSource 从 Feast Feature Store 拉取在线特征并构建 Record。
//
// 每个特征产出一个 (batch, 1) 的稠密字段，以及按加载器约定命名的
// "{field}_presence" 兄弟字段：特征缺失或为空的样本 presence 记 0。
// 字段名取特征引用 "view:feature" 中冒号后的部分。
type FeastSource struct {
	client   feastsdk.Client
	project  string
	features []string
	batches  [][]feastsdk.Row
	next     int
}

// NewFeastSource 创建 Feast 记录源；batches 是逐批的实体行。
func NewFeastSource(client feastsdk.Client, project string, features []string, batches [][]feastsdk.Row) (*FeastSource, error) {
	if client == nil {
		return nil, core.NewError(core.ModuleLoader, core.ErrorCodeMisconfigured, "", "feast client is required")
	}
	if len(features) == 0 {
		return nil, core.NewError(core.ModuleLoader, core.ErrorCodeMisconfigured, "", "at least one feature reference is required")
	}
	return &FeastSource{
		client:   client,
		project:  project,
		features: features,
		batches:  batches,
	}, nil
}

func (s *FeastSource) Next(ctx context.Context) (core.Record, error) {
	if s.next >= len(s.batches) {
		return nil, nil
	}
	entities := s.batches[s.next]
	s.next++

	resp, err := s.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: s.features,
		Entities: entities,
		Project:  s.project,
	})
	if err != nil {
		return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeNotFound, "", "feast get online features: %v", err)
	}

	rows := resp.Rows()
	rec := make(core.Record, 2*len(s.features))
	for _, ref := range s.features {
		field := fieldName(ref)
		value := tensor.New(len(rows), 1)
		presence := tensor.New(len(rows), 1)
		for i, row := range rows {
			v, ok := scalarValue(row[ref])
			if !ok {
				continue
			}
			value.Set(v, i, 0)
			presence.Set(1, i, 0)
		}
		rec[field] = core.Dense{Tensor: value}
		rec[field+"_presence"] = core.Dense{Tensor: presence}
	}
	return rec, nil
}

// fieldName 取特征引用 "view:feature" 中的特征名部分。
func fieldName(ref string) string {
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// scalarValue 把 Feast 的标量值转为 float64，空值或非数值返回 false。
func scalarValue(v *feasttypes.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.GetVal().(type) {
	case *feasttypes.Value_DoubleVal:
		return val.DoubleVal, true
	case *feasttypes.Value_FloatVal:
		return float64(val.FloatVal), true
	case *feasttypes.Value_Int64Val:
		return float64(val.Int64Val), true
	case *feasttypes.Value_Int32Val:
		return float64(val.Int32Val), true
	case *feasttypes.Value_BoolVal:
		if val.BoolVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
