package pipeline

import (
	"context"

	"github.com/BerenLuthien/ReAgent/core"
)

// Compose 是核心抽象：把批次预处理拆成可组合的 Transform 链，
// 按构建顺序逐个应用，前一个的输出作为后一个的输入。
// 任何一个 Transform 出错即中止当前 Record 的处理并原样上抛。
type Compose struct {
	Transforms []Transform
}

// NewCompose 按给定顺序构建流水线。
func NewCompose(transforms ...Transform) *Compose {
	return &Compose{Transforms: transforms}
}

func (p *Compose) Apply(ctx context.Context, rec core.Record) (core.Record, error) {
	cur := rec
	for _, t := range p.Transforms {
		next, err := t.Apply(ctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
