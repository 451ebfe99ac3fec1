// Package reagent 是一个批式特征预处理工具包：
// 把强化学习交互日志的原始批次变换为形状固定的归一化张量。
//
// 设计要点：
// - Pipeline-first: 所有预处理逻辑通过 Transform 串联（配对 → 归一化 → 序列 → 代数 → 结构调整）
// - Record-in/Record-out: 每个 Transform 消费并产出命名字段容器，可自由组合
// - 协作对象可替换: 归一化器与稀疏编码器以接口注入，参考实现在 preprocessing 中
package reagent

import "github.com/BerenLuthien/ReAgent/pipeline"

// 轻量 facade：便于用户直接 import 根包使用核心抽象。
type Compose = pipeline.Compose
type Transform = pipeline.Transform
type Kind = pipeline.Kind

const (
	KindPresence      = pipeline.KindPresence
	KindNormalization = pipeline.KindNormalization
	KindSequence      = pipeline.KindSequence
	KindAlgebra       = pipeline.KindAlgebra
	KindStructural    = pipeline.KindStructural
)
