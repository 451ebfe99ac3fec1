// Package runner 在多个 worker 上并发处理批次流。
//
// 由于 Transform 实例持有逐实例的可变缓存（延迟构建的归一化器、
// 推断出的序列步长），流水线实例不能跨 goroutine 共享：
// 每个 worker 通过 Build 构建并独占自己的一条流水线。
package runner

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/loader"
	"github.com/BerenLuthien/ReAgent/pipeline"
)

// Runner 把一个 Source 的所有批次交给 Workers 条流水线并发处理。
type Runner struct {
	Build   func() (*pipeline.Compose, error) // 每个 worker 调用一次
	Workers int                               // <=0 时取 1
}

// Run 消费 src 的全部批次并返回处理结果。
// 任何批次出错即取消其余 worker 并返回该错误；结果顺序不保证
// 与输入顺序一致。
func (r *Runner) Run(ctx context.Context, src loader.Source) ([]core.Record, error) {
	if r.Build == nil {
		return nil, core.NewError(core.ModulePipeline, core.ErrorCodeMisconfigured, "", "runner requires a pipeline builder")
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu  sync.Mutex
		out []core.Record
	)
	eg, ctx := errgroup.WithContext(ctx)
	feed := make(chan core.Record)

	// 单 goroutine 拉取 Source，保持其单线程契约
	eg.Go(func() error {
		defer close(feed)
		for {
			rec, err := src.Next(ctx)
			if err != nil {
				return err
			}
			if rec == nil {
				return nil
			}
			select {
			case feed <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			compose, err := r.Build()
			if err != nil {
				return err
			}
			for rec := range feed {
				processed, err := compose.Apply(ctx, rec)
				if err != nil {
					return err
				}
				mu.Lock()
				out = append(out, processed)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
