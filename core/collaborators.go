package core

import "github.com/BerenLuthien/ReAgent/tensor"

// Normalizer 是数值归一化引擎的协作契约：
// 输入 (value, presence) 对，输出归一化后的稠密张量。
// 具体实现由外部提供，流水线只依赖此接口。
type Normalizer interface {
	Normalize(value, presence *tensor.Tensor) (*tensor.Tensor, error)
}

// NormalizerFactory 在首次调用时延迟构建 Normalizer，
// 使变换配置在计算目标就绪之前即可构建与传输。
type NormalizerFactory func(data NormalizationData, device Device) (Normalizer, error)

// SparseEncoder 是稀疏 id 编码器的协作契约：
// 把 id 列表/带权 id 列表映射为可嵌入的张量表示。
type SparseEncoder interface {
	EncodeIDList(v IDList) (*tensor.Tensor, error)
	EncodeIDScoreList(v IDScoreList) (*tensor.Tensor, error)
}

// SparseEncoderFactory 在首次调用时延迟构建 SparseEncoder。
type SparseEncoderFactory func(config ModelFeatureConfig, device Device) (SparseEncoder, error)
