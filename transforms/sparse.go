package transforms

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
)

// MapIDListFeatures 把声明的稀疏 id 字段交给稀疏编码协作对象，
// 产出可嵌入的稠密张量表示。
//
// 规则：
//   - 特征配置未声明任何稀疏词表，或字段在 Record 中缺失：字段置为 Absent
//   - 字段表示不是 id 列表 / 带权 id 列表：TYPE_VIOLATION
//   - id-list 与 id-score-list 的字段名集合必须不相交（构建期检查）
type MapIDListFeatures struct {
	idListKeys      []string
	idScoreListKeys []string
	config          core.ModelFeatureConfig
	device          core.Device
	factory         core.SparseEncoderFactory

	encoder core.SparseEncoder // 延迟构建，首次 Apply 时填充
}

func NewMapIDListFeatures(
	idListKeys, idScoreListKeys []string,
	config core.ModelFeatureConfig,
	factory core.SparseEncoderFactory,
	device core.Device,
) (*MapIDListFeatures, error) {
	if factory == nil {
		return nil, errMisconfigured("sparse mapping requires a sparse encoder factory")
	}
	seen := make(map[string]struct{}, len(idListKeys))
	for _, k := range idListKeys {
		seen[k] = struct{}{}
	}
	for _, k := range idScoreListKeys {
		if _, ok := seen[k]; ok {
			return nil, errMisconfigured("field %q is declared both as id-list and id-score-list", k)
		}
	}
	return &MapIDListFeatures{
		idListKeys:      idListKeys,
		idScoreListKeys: idScoreListKeys,
		config:          config,
		device:          device,
		factory:         factory,
	}, nil
}

func (*MapIDListFeatures) Name() string        { return "normalization.map_id_list" }
func (*MapIDListFeatures) Kind() pipeline.Kind { return pipeline.KindNormalization }

func (t *MapIDListFeatures) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range t.idListKeys {
		if done, err := t.disableIfUnused(rec, k); done || err != nil {
			if err != nil {
				return nil, err
			}
			continue
		}
		v, ok := rec[k].(core.IDList)
		if !ok {
			return nil, errType(k, rec[k], string(core.KindIDList))
		}
		encoded, err := t.encoder.EncodeIDList(v)
		if err != nil {
			return nil, err
		}
		rec[k] = core.Dense{Tensor: encoded}
	}

	for _, k := range t.idScoreListKeys {
		if done, err := t.disableIfUnused(rec, k); done || err != nil {
			if err != nil {
				return nil, err
			}
			continue
		}
		v, ok := rec[k].(core.IDScoreList)
		if !ok {
			return nil, errType(k, rec[k], string(core.KindIDScoreList))
		}
		encoded, err := t.encoder.EncodeIDScoreList(v)
		if err != nil {
			return nil, err
		}
		rec[k] = core.Dense{Tensor: encoded}
	}
	return rec, nil
}

// disableIfUnused 处理“稀疏特征未启用或字段缺失”的降级路径，
// 否则保证编码器已构建。返回 done=true 表示该字段已处理完毕。
func (t *MapIDListFeatures) disableIfUnused(rec core.Record, key string) (bool, error) {
	if !t.config.Enabled() || !rec.Has(key) {
		rec[key] = core.Absent{}
		return true, nil
	}
	if t.encoder == nil {
		enc, err := t.factory(t.config, t.device)
		if err != nil {
			return false, err
		}
		t.encoder = enc
	}
	return false, nil
}
