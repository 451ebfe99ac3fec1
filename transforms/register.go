package transforms

import (
	"github.com/BerenLuthien/ReAgent/pipeline"
	"github.com/BerenLuthien/ReAgent/pkg/conv"
)

// RegisterBuilders 把所有可以纯配置表达的 Transform 注册到工厂。
// 需要协作对象的变换（稠密归一化、稀疏映射、定长序列组合）
// 由使用方自行注册携带闭包的构建器。
func RegisterBuilders(f *pipeline.Factory) {
	f.Register("value_presence", func(_ map[string]any) (pipeline.Transform, error) {
		return NewValuePresence(), nil
	})
	f.Register("select_value_presence_columns", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewSelectValuePresenceColumns(
			conv.ConfigGet(cfg, "source", ""),
			conv.ConfigGet(cfg, "dest", ""),
			conv.SliceAnyToInt(cfg["indices"]),
		), nil
	})
	f.Register("column_vector", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewColumnVector(conv.SliceAnyToString(cfg["keys"])), nil
	})
	f.Register("mask_by_presence", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewMaskByPresence(conv.SliceAnyToString(cfg["keys"])), nil
	})
	f.Register("one_hot_actions", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewOneHotActions(
			conv.SliceAnyToString(cfg["keys"]),
			conv.ConfigGetInt(cfg, "num_actions", 0),
		)
	})
	f.Register("stack_dense", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewStackDenseFixedSizeArray(
			conv.SliceAnyToString(cfg["keys"]),
			conv.ConfigGetInt(cfg, "size", 0),
		)
	})
	f.Register("slate_view", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewSlateView(
			conv.SliceAnyToString(cfg["keys"]),
			conv.ConfigGetInt(cfg, "slate_size", 0),
		), nil
	})
	f.Register("append_constant", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewAppendConstant(
			conv.SliceAnyToString(cfg["keys"]),
			conv.ConfigGetInt(cfg, "dim", -1),
			conv.ConfigGetFloat(cfg, "const", 1.0),
		), nil
	})
	f.Register("unsqueeze_repeat", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewUnsqueezeRepeat(
			conv.SliceAnyToString(cfg["keys"]),
			conv.ConfigGetInt(cfg, "dim", 0),
			conv.ConfigGetInt(cfg, "num_repeat", 1),
		), nil
	})
	f.Register("outer_product", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewOuterProduct(
			conv.ConfigGet(cfg, "key1", ""),
			conv.ConfigGet(cfg, "key2", ""),
			conv.ConfigGet(cfg, "output_key", ""),
			conv.ConfigGet(cfg, "drop_inputs", false),
		), nil
	})
	f.Register("get_eye", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewGetEye(
			conv.ConfigGet(cfg, "key", ""),
			conv.ConfigGetInt(cfg, "size", 0),
		)
	})
	f.Register("cat", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewCat(
			conv.SliceAnyToString(cfg["input_keys"]),
			conv.ConfigGet(cfg, "output_key", ""),
			conv.ConfigGetInt(cfg, "dim", 0),
			conv.ConfigGet(cfg, "broadcast", true),
		)
	})
	f.Register("rename", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewRename(
			conv.SliceAnyToString(cfg["old_names"]),
			conv.SliceAnyToString(cfg["new_names"]),
		)
	})
	f.Register("filter", func(cfg map[string]any) (pipeline.Transform, error) {
		var opts []FilterOption
		if keep, ok := cfg["keep_keys"]; ok {
			opts = append(opts, WithKeepKeys(conv.SliceAnyToString(keep)))
		}
		if remove, ok := cfg["remove_keys"]; ok {
			opts = append(opts, WithRemoveKeys(conv.SliceAnyToString(remove)))
		}
		return NewFilter(opts...)
	})
	f.Register("lambda_cel", func(cfg map[string]any) (pipeline.Transform, error) {
		return NewCELLambda(
			conv.SliceAnyToString(cfg["keys"]),
			conv.ConfigGet(cfg, "expr", ""),
		)
	})
}
