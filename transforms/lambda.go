package transforms

import (
	"context"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/pipeline"
)

// Lambda 对列出的字段应用任意回调。
// 回调必须返回闭集 Value 中的某个变体；错误原样上抛。
type Lambda struct {
	Keys []string
	Fn   func(core.Value) (core.Value, error)
}

func NewLambda(keys []string, fn func(core.Value) (core.Value, error)) (*Lambda, error) {
	if fn == nil {
		return nil, errMisconfigured("lambda requires a callback")
	}
	return &Lambda{Keys: keys, Fn: fn}, nil
}

func (*Lambda) Name() string        { return "structural.lambda" }
func (*Lambda) Kind() pipeline.Kind { return pipeline.KindStructural }

func (t *Lambda) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range t.Keys {
		v, ok := rec[k]
		if !ok {
			return nil, errMissingField(k)
		}
		out, err := t.Fn(v)
		if err != nil {
			return nil, err
		}
		rec[k] = out
	}
	return rec, nil
}

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// getCELEnv 获取或创建 CEL 环境，变量 x 绑定为当前元素值。
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("x", cel.DoubleType),
		)
	})
	return celEnv, celEnvErr
}

// CELLambda 用 CEL (Common Expression Language) 表达式对稠密字段
// 做逐元素标量变换，是 Lambda 的配置友好形式。
//
// 表达式把当前元素绑定为变量 x，必须求值为 double。示例：
//   - `x * 2.0 + 1.0`    → 线性变换
//   - `x > 0.0 ? x : 0.0` → ReLU 截断
//
// 表达式在构建期编译一次并缓存；编译失败属于构建期配置错误。
type CELLambda struct {
	keys []string
	expr string
	prg  cel.Program
}

func NewCELLambda(keys []string, expr string) (*CELLambda, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errMisconfigured("compile expression %q: %v", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, errMisconfigured("build program for %q: %v", expr, err)
	}
	return &CELLambda{keys: keys, expr: expr, prg: prg}, nil
}

func (*CELLambda) Name() string        { return "structural.lambda_cel" }
func (*CELLambda) Kind() pipeline.Kind { return pipeline.KindStructural }

func (t *CELLambda) Apply(_ context.Context, rec core.Record) (core.Record, error) {
	for _, k := range t.keys {
		d, err := denseField(rec, k)
		if err != nil {
			return nil, err
		}
		out := d.Tensor.Clone()
		data := out.Data()
		for i, v := range data {
			result, _, err := t.prg.Eval(map[string]any{"x": v})
			if err != nil {
				return nil, core.Errorf(core.ModuleTransform, core.ErrorCodeTypeViolation, k,
					"evaluate %q on element %d: %v", t.expr, i, err)
			}
			f, ok := result.Value().(float64)
			if !ok {
				return nil, core.Errorf(core.ModuleTransform, core.ErrorCodeTypeViolation, k,
					"expression %q returned %T, want double", t.expr, result.Value())
			}
			data[i] = f
		}
		rec[k] = core.Dense{Tensor: out}
	}
	return rec, nil
}
