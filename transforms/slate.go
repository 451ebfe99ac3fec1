package transforms

import (
	"context"
	"fmt"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
)

// SlateView 把 (batch*slate_size, dim) 的扁平张量重新解释为
// (batch, slate_size, dim)。纯 reshape，要求输入恰好是 2-D。
type SlateView struct {
	Keys      []string
	SlateSize int
}

func NewSlateView(keys []string, slateSize int) *SlateView {
	return &SlateView{Keys: keys, SlateSize: slateSize}
}

func (*SlateView) Name() string        { return "sequence.slate_view" }
func (*SlateView) Kind() pipeline.Kind { return pipeline.KindSequence }

func (t *SlateView) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	if t.SlateSize <= 0 {
		return nil, errMisconfigured("slate size must be positive, got %d", t.SlateSize)
	}
	for _, k := range t.Keys {
		d, err := denseField(rec, k)
		if err != nil {
			return nil, err
		}
		if d.Tensor.Dims() != 2 {
			return nil, errShape(k, "want 2-D flattened slate, got shape %s", shapeString(d.Tensor.Shape()))
		}
		dim := d.Tensor.Size(1)
		reshaped, err := d.Tensor.Reshape(-1, t.SlateSize, dim)
		if err != nil {
			return nil, errShape(k, "shape %s does not split into slates of %d", shapeString(d.Tensor.Shape()), t.SlateSize)
		}
		rec[k] = core.Dense{Tensor: reshaped}
	}
	return rec, nil
}

// FixedLengthSequenceDenseNormalization 组合三个阶段：
// 定长序列抽取 → 稠密归一化 → slate 重排。
// 中间结果写入派生字段 "{field}:{sequence_id}"。
//
// slate 大小在构建时未知：最后一步的 reshape 使用序列阶段
// 在首个批次上推断出的步长，因此三个阶段必须按此顺序运行，
// 且共享同一个序列阶段实例的缓存状态。
type FixedLengthSequenceDenseNormalization struct {
	sequences *FixedLengthSequences
	dense     *DenseNormalization
	slate     *SlateView
}

func NewFixedLengthSequenceDenseNormalization(
	keys []string,
	sequenceID int64,
	data core.NormalizationData,
	factory core.NormalizerFactory,
	device core.Device,
	opts ...FixedLengthSequencesOption,
) (*FixedLengthSequenceDenseNormalization, error) {
	toKeys := make([]string, len(keys))
	for i, k := range keys {
		toKeys[i] = fmt.Sprintf("%s:%d", k, sequenceID)
	}
	opts = append(opts, WithToKeys(toKeys))
	sequences, err := NewFixedLengthSequences(keys, sequenceID, opts...)
	if err != nil {
		return nil, err
	}
	dense, err := NewDenseNormalization(toKeys, data, factory, device)
	if err != nil {
		return nil, err
	}
	return &FixedLengthSequenceDenseNormalization{
		sequences: sequences,
		dense:     dense,
		// slate 大小在 Apply 中由序列阶段的缓存步长覆盖
		slate: NewSlateView(toKeys, -1),
	}, nil
}

func (*FixedLengthSequenceDenseNormalization) Name() string {
	return "sequence.fixed_length_dense_normalization"
}
func (*FixedLengthSequenceDenseNormalization) Kind() pipeline.Kind { return pipeline.KindSequence }

func (t *FixedLengthSequenceDenseNormalization) Apply(ctx context.Context, rec core.Record) (core.Record, error) {
	rec, err := t.sequences.Apply(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec, err = t.dense.Apply(ctx, rec)
	if err != nil {
		return nil, err
	}
	t.slate.SlateSize = t.sequences.ExpectedLength()
	return t.slate.Apply(ctx, rec)
}
