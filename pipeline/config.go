package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是流水线的配置结构（支持 YAML/JSON）。
type Config struct {
	Pipeline struct {
		Name       string            `yaml:"name" json:"name"`
		Transforms []TransformConfig `yaml:"transforms" json:"transforms"`
	} `yaml:"pipeline" json:"pipeline"`
}

// TransformConfig 是单个 Transform 的配置。
type TransformConfig struct {
	Type   string         `yaml:"type" json:"type"`     // rename / filter / one_hot_actions 等
	Config map[string]any `yaml:"config" json:"config"` // Transform 特定配置
}

// LoadFromYAML 从 YAML 文件加载流水线配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载流水线配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &cfg, nil
}

// Build 根据配置构建 Compose（需要 Factory 注册 Transform 构建器）。
// 构建期错误（未注册的类型、非法参数）在此处暴露，不会留到处理批次时。
func (c *Config) Build(factory *Factory) (*Compose, error) {
	transforms := make([]Transform, 0, len(c.Pipeline.Transforms))

	for _, tc := range c.Pipeline.Transforms {
		t, err := factory.Build(tc.Type, tc.Config)
		if err != nil {
			return nil, fmt.Errorf("build transform %s: %w", tc.Type, err)
		}
		transforms = append(transforms, t)
	}

	return &Compose{Transforms: transforms}, nil
}

// Factory 用于根据配置构建 Transform 实例。
// 需要协作对象（归一化器、稀疏编码器）的变换，
// 由使用方注册携带闭包的构建器。
type Factory struct {
	builders map[string]func(map[string]any) (Transform, error)
}

func NewFactory() *Factory {
	return &Factory{
		builders: make(map[string]func(map[string]any) (Transform, error)),
	}
}

// Register 注册 Transform 构建器。
func (f *Factory) Register(transformType string, builder func(map[string]any) (Transform, error)) {
	f.builders[transformType] = builder
}

// Build 根据类型和配置构建 Transform。
func (f *Factory) Build(transformType string, config map[string]any) (Transform, error) {
	builder, ok := f.builders[transformType]
	if !ok {
		return nil, fmt.Errorf("unknown transform type: %s", transformType)
	}
	return builder(config)
}
