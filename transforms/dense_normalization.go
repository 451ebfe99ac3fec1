package transforms

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
)

// DenseNormalization 用归一化协作对象处理一组 (value, presence) 字段，
// 并把字段替换为归一化后的稠密张量（presence 对在此处被消费掉）。
//
// 归一化器在首次调用时通过 factory 延迟构建，使本变换在计算目标
// 就绪之前可以先构建和传输；构建后对所有后续批次复用同一实例。
// 配置中声明的字段在 Record 中缺失是硬错误，不会被静默跳过。
type DenseNormalization struct {
	keys    []string
	data    core.NormalizationData
	device  core.Device
	factory core.NormalizerFactory

	normalizer core.Normalizer // 延迟构建，首次 Apply 时填充
}

func NewDenseNormalization(
	keys []string,
	data core.NormalizationData,
	factory core.NormalizerFactory,
	device core.Device,
) (*DenseNormalization, error) {
	if factory == nil {
		return nil, errMisconfigured("dense normalization requires a normalizer factory")
	}
	return &DenseNormalization{
		keys:    keys,
		data:    data,
		device:  device,
		factory: factory,
	}, nil
}

func (*DenseNormalization) Name() string        { return "normalization.dense" }
func (*DenseNormalization) Kind() pipeline.Kind { return pipeline.KindNormalization }

func (t *DenseNormalization) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	if t.normalizer == nil {
		n, err := t.factory(t.data, t.device)
		if err != nil {
			return nil, err
		}
		t.normalizer = n
	}

	for _, k := range t.keys {
		pair, err := pairField(rec, k)
		if err != nil {
			return nil, err
		}
		value, presence, err := scrubNaN(k, pair)
		if err != nil {
			return nil, err
		}
		normalized, err := t.normalizer.Normalize(value, presence)
		if err != nil {
			return nil, err
		}
		rec[k] = core.Dense{Tensor: normalized}
	}
	return rec, nil
}
