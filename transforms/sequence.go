package transforms

import (
	"context"
	"fmt"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
)

// FixedLengthSequences 从变长序列字段中按 sequence-id 选出定长序列：
//
//  1. 校验 offsets 构成固定步长：第 i 个 offset 必须等于 i*stride
//  2. 把字段（或改名后的目标字段）替换为扁平 payload 的 (value, presence) 对
//
// 步长来源（优先级）：构建时显式指定；否则在首个批次上推断 ——
// 批次大于 1 时取前两个 offset 的差，批次等于 1 时取 payload 自身
// 第一维的长度。推断结果缓存在实例上，后续批次只做校验、不再推断。
//
// 已知限制：批次恰好为 1 且序列确实不定长时，payload 长度推断
// 无法发现问题；这一兜底路径不构成契约保证。
//
// 任何 offset 偏离期望步长都是 SEQUENCE_MISALIGNED 硬错误——
// 用 reshape 吞掉错排的 ragged 数据会悄悄破坏批次对齐。
type FixedLengthSequences struct {
	keys       []string
	toKeys     []string
	sequenceID int64

	expectedLength int
	lengthKnown    bool
}

// FixedLengthSequencesOption 配置可选行为。
type FixedLengthSequencesOption func(*FixedLengthSequences)

// WithToKeys 把结果写到目标字段而不是覆盖源字段，
// keys 与 toKeys 按下标一一对应。
func WithToKeys(toKeys []string) FixedLengthSequencesOption {
	return func(t *FixedLengthSequences) { t.toKeys = toKeys }
}

// WithExpectedLength 显式指定步长，跳过首批推断。
func WithExpectedLength(length int) FixedLengthSequencesOption {
	return func(t *FixedLengthSequences) {
		t.expectedLength = length
		t.lengthKnown = true
	}
}

func NewFixedLengthSequences(keys []string, sequenceID int64, opts ...FixedLengthSequencesOption) (*FixedLengthSequences, error) {
	t := &FixedLengthSequences{keys: keys, sequenceID: sequenceID}
	for _, opt := range opts {
		opt(t)
	}
	if t.toKeys == nil {
		t.toKeys = keys
	}
	if len(t.toKeys) != len(keys) {
		return nil, errMisconfigured("to-keys length %d does not match keys length %d", len(t.toKeys), len(keys))
	}
	if t.lengthKnown && t.expectedLength <= 0 {
		return nil, errMisconfigured("expected sequence length must be positive, got %d", t.expectedLength)
	}
	return t, nil
}

func (*FixedLengthSequences) Name() string        { return "sequence.fixed_length" }
func (*FixedLengthSequences) Kind() pipeline.Kind { return pipeline.KindSequence }

// ExpectedLength 返回已知（配置或推断出）的步长；尚未确定时返回 0。
func (t *FixedLengthSequences) ExpectedLength() int {
	if !t.lengthKnown {
		return 0
	}
	return t.expectedLength
}

func (t *FixedLengthSequences) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for i, k := range t.keys {
		raw, ok := rec[k]
		if !ok {
			return nil, errMissingField(k)
		}
		rs, ok := raw.(core.RaggedSequence)
		if !ok {
			return nil, errType(k, raw, string(core.KindRaggedSequence))
		}
		seq, ok := rs[t.sequenceID]
		if !ok {
			return nil, core.Errorf(core.ModuleTransform, core.ErrorCodeMissingField, k,
				"sequence id %d not present", t.sequenceID)
		}

		if !t.lengthKnown {
			if len(seq.Offsets) > 1 {
				t.expectedLength = int(seq.Offsets[1] - seq.Offsets[0])
			} else {
				// 批次为 1：退化为用 payload 自身的长度
				t.expectedLength = seq.Value.Size(0)
			}
			if t.expectedLength <= 0 {
				return nil, errShape(k, "cannot infer a positive stride from offsets %v", seq.Offsets)
			}
			t.lengthKnown = true
		}

		for pos, off := range seq.Offsets {
			if off != int64(pos*t.expectedLength) {
				return nil, core.Errorf(core.ModuleTransform, core.ErrorCodeSequenceMisaligned, k,
					"unexpected offsets for sequence id %d: %v, want stride %d (%s)",
					t.sequenceID, seq.Offsets, t.expectedLength, expectedOffsets(len(seq.Offsets), t.expectedLength))
			}
		}

		rec[t.toKeys[i]] = core.ValuePresence{Value: seq.Value, Presence: seq.Presence}
	}
	return rec, nil
}

func expectedOffsets(n, stride int) string {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i * stride)
	}
	return fmt.Sprintf("expected %v", out)
}
