package pipeline

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
)

// Kind 用于标记 Transform 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindPresence      Kind = "presence"      // 存在性适配：value/presence 配对与掩码
	KindNormalization Kind = "normalization" // 归一化阶段：稠密归一化、稀疏编码
	KindSequence      Kind = "sequence"      // 序列阶段：定长序列抽取、slate 重排
	KindAlgebra       Kind = "algebra"       // 张量代数：拼接、外积、补列等
	KindStructural    Kind = "structural"    // 结构调整：改名、过滤
)

// Transform 是流水线的最小可扩展单元。
// 统一采用“输入 Record -> 输出 Record”的形态：
// 变换要么就地修改并返回同一个 Record，要么返回重建后的新 Record。
//
// 实例可能持有跨批次的缓存状态（延迟构建的归一化器、推断出的序列步长），
// 因此同一实例不可在多个 goroutine 间并发共享。
type Transform interface {
	Name() string
	Kind() Kind

	Apply(ctx context.Context, rec core.Record) (core.Record, error)
}
