package store

import (
	"context"
	"encoding/json"

	"github.com/BerenLuthien/ReAgent/core"
)

// MetadataStore 把按字段名组织的归一化元数据持久化到 KeyValueStore，
// 使流水线可以离线拟合参数、在线按名加载后构建归一化变换。
type MetadataStore struct {
	kv     KeyValueStore
	prefix string
}

// NewMetadataStore 创建元数据存储，prefix 用于隔离不同模型的命名空间。
func NewMetadataStore(kv KeyValueStore, prefix string) *MetadataStore {
	if prefix == "" {
		prefix = "normalization"
	}
	return &MetadataStore{kv: kv, prefix: prefix}
}

func (s *MetadataStore) key(field string) string {
	return s.prefix + ":" + field
}

// Save 持久化一个字段的归一化参数。
func (s *MetadataStore) Save(ctx context.Context, field string, data core.NormalizationData) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key(field), buf)
}

// Load 加载一个字段的归一化参数，不存在时返回 NOT_FOUND。
func (s *MetadataStore) Load(ctx context.Context, field string) (core.NormalizationData, error) {
	buf, err := s.kv.Get(ctx, s.key(field))
	if err != nil {
		return core.NormalizationData{}, err
	}
	var data core.NormalizationData
	if err := json.Unmarshal(buf, &data); err != nil {
		return core.NormalizationData{}, core.Errorf(core.ModuleStore, core.ErrorCodeTypeViolation, field,
			"decode normalization data: %v", err)
	}
	return data, nil
}

// LoadAll 批量加载多个字段的归一化参数，缺失的字段被跳过。
func (s *MetadataStore) LoadAll(ctx context.Context, fields []string) (map[string]core.NormalizationData, error) {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = s.key(f)
	}
	raw, err := s.kv.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[string]core.NormalizationData, len(raw))
	for i, f := range fields {
		buf, ok := raw[keys[i]]
		if !ok {
			continue
		}
		var data core.NormalizationData
		if err := json.Unmarshal(buf, &data); err != nil {
			return nil, core.Errorf(core.ModuleStore, core.ErrorCodeTypeViolation, f,
				"decode normalization data: %v", err)
		}
		out[f] = data
	}
	return out, nil
}
