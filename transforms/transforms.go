// Package transforms 提供作用在 core.Record 命名字段上的叶子变换集合。
//
// 每个变换只读写自己声明的字段，并对这些字段强制自己的形状、
// 存在性掩码与归一化约束。变换实例在流水线构建时创建一次，
// 之后被多个批次复用；实例内部缓存（延迟构建的归一化器、
// 推断出的序列步长）属于实例生命周期，不属于单个 Record。
package transforms

import (
	"fmt"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// PresenceSuffix 是加载器侧 presence 兄弟字段的命名约定。
const PresenceSuffix = "_presence"

func errMissingField(key string) error {
	return core.NewError(core.ModuleTransform, core.ErrorCodeMissingField, key, "configured field is missing from record")
}

func errType(key string, got core.Value, want string) error {
	kind := "nil"
	if got != nil {
		kind = string(got.Kind())
	}
	return core.Errorf(core.ModuleTransform, core.ErrorCodeTypeViolation, key, "unsupported representation %s, want %s", kind, want)
}

func errShape(key, format string, args ...any) error {
	return core.Errorf(core.ModuleTransform, core.ErrorCodeShapeViolation, key, format, args...)
}

func errMisconfigured(format string, args ...any) error {
	return core.Errorf(core.ModuleTransform, core.ErrorCodeMisconfigured, "", format, args...)
}

// denseField 取出必须为稠密张量的字段。
func denseField(rec core.Record, key string) (core.Dense, error) {
	v, ok := rec[key]
	if !ok {
		return core.Dense{}, errMissingField(key)
	}
	d, ok := v.(core.Dense)
	if !ok {
		return core.Dense{}, errType(key, v, string(core.KindDense))
	}
	return d, nil
}

// pairField 取出必须为 (value, presence) 对的字段。
func pairField(rec core.Record, key string) (core.ValuePresence, error) {
	v, ok := rec[key]
	if !ok {
		return core.ValuePresence{}, errMissingField(key)
	}
	p, ok := v.(core.ValuePresence)
	if !ok {
		return core.ValuePresence{}, errType(key, v, string(core.KindValuePresence))
	}
	return p, nil
}

func shapeString(shape []int) string {
	return fmt.Sprintf("%v", shape)
}

// scrubNaN 清洗 (value, presence)：value 为 NaN 的位置两者同时置零。
func scrubNaN(key string, pair core.ValuePresence) (*tensor.Tensor, *tensor.Tensor, error) {
	value, presence, err := tensor.ScrubNaN(pair.Value, pair.Presence)
	if err != nil {
		return nil, nil, errShape(key, "value shape %s does not match presence shape %s",
			shapeString(pair.Value.Shape()), shapeString(pair.Presence.Shape()))
	}
	return value, presence, nil
}
