package core

import (
	"sort"

	"github.com/BerenLuthien/ReAgent/tensor"
)

// Kind 标识 Record 字段值的表示形式，用于错误诊断与闭集分派。
type Kind string

const (
	KindDense             Kind = "dense"               // 稠密张量
	KindValuePresence     Kind = "value_presence"      // (value, presence) 对
	KindValuePresenceList Kind = "value_presence_list" // 逐样本的 (value, presence) 列表（拼批前）
	KindScalars           Kind = "scalars"             // 加载器原始标量列
	KindIDList            Kind = "id_list"             // 稀疏 id 列表
	KindIDScoreList       Kind = "id_score_list"       // 带权稀疏 id 列表
	KindRaggedSequence    Kind = "ragged_sequence"     // 变长序列（offsets + 扁平 payload）
	KindAbsent            Kind = "absent"              // 显式空占位
)

// Value 是 Record 字段值的闭集 tagged union。
// 每个变换对自己消费的字段做穷尽分派，未识别的表示是 TYPE_VIOLATION。
type Value interface {
	Kind() Kind
}

// Dense 是形状为 (batch, ...) 的稠密张量。
type Dense struct {
	Tensor *tensor.Tensor
}

func (Dense) Kind() Kind { return KindDense }

// ValuePresence 是同形状的 (value, presence) 对，
// presence 为逐元素的 0/1 有效性掩码。
type ValuePresence struct {
	Value    *tensor.Tensor
	Presence *tensor.Tensor
}

func (ValuePresence) Kind() Kind { return KindValuePresence }

// ValuePresenceList 是拼批前逐样本的 (value, presence) 列表。
type ValuePresenceList []ValuePresence

func (ValuePresenceList) Kind() Kind { return KindValuePresenceList }

// Scalars 是加载器交付的原始标量列（每个样本一个值）。
type Scalars []float64

func (Scalars) Kind() Kind { return KindScalars }

// IDListEntry 是单个稀疏特征的 id 列表：
// Offsets 记录每个样本的子列表在 IDs 中的起始下标。
type IDListEntry struct {
	Offsets []int64
	IDs     []int64
}

// IDList 是特征 id 到 id 列表的映射。
type IDList map[int64]IDListEntry

func (IDList) Kind() Kind { return KindIDList }

// IDScoreListEntry 在 IDListEntry 基础上给每个 id 附带一个权重。
type IDScoreListEntry struct {
	Offsets []int64
	IDs     []int64
	Scores  []float64
}

// IDScoreList 是特征 id 到带权 id 列表的映射。
type IDScoreList map[int64]IDScoreListEntry

func (IDScoreList) Kind() Kind { return KindIDScoreList }

// Sequence 是一条变长序列：Offsets 记录每个样本的子序列
// 在扁平 payload 中的起始下标，payload 为 (value, presence) 对。
type Sequence struct {
	Offsets  []int64
	Value    *tensor.Tensor
	Presence *tensor.Tensor
}

// RaggedSequence 是 sequence-id 到序列的映射。
type RaggedSequence map[int64]Sequence

func (RaggedSequence) Kind() Kind { return KindRaggedSequence }

// Absent 是显式空占位：配置启用但当前特征配置下确实没有数据的字段。
type Absent struct{}

func (Absent) Kind() Kind { return KindAbsent }

// Record 是流经流水线的命名字段容器，一个批次构建一次。
// key 的顺序无意义；任何变换都可以增删改 key。
type Record map[string]Value

// Has 判断字段是否存在。
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Dense 取出稠密字段，表示不符时返回 false。
func (r Record) Dense(key string) (*tensor.Tensor, bool) {
	if v, ok := r[key].(Dense); ok {
		return v.Tensor, true
	}
	return nil, false
}

// Keys 返回排序后的字段名列表（仅用于确定性遍历与诊断输出）。
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone 返回浅拷贝：复制映射本身，字段值共享。
// 供需要重建映射而非就地修改的变换（如 Rename、Filter）使用。
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
