package core

// Device 是计算目标的不透明标识，在流水线构建时传入并固定。
// 延迟构建的协作对象（归一化器、稀疏编码器）全部落在同一个 Device 上。
type Device string

const (
	// DeviceCPU 是默认计算目标。
	DeviceCPU Device = "cpu"
)

// NormalizationMethod 是单列特征的归一化方式。
type NormalizationMethod string

const (
	// NormalizationIdentity 不做变换，原样透传
	NormalizationIdentity NormalizationMethod = "identity"
	// NormalizationZScore 标准化：z = (x - mean) / std
	NormalizationZScore NormalizationMethod = "zscore"
	// NormalizationMinMax 归一化：x' = (x - min) / (max - min)
	NormalizationMinMax NormalizationMethod = "minmax"
)

// NormalizationParameters 是单列特征的归一化参数。
type NormalizationParameters struct {
	Method NormalizationMethod `json:"method" yaml:"method"`
	Mean   float64             `json:"mean,omitempty" yaml:"mean,omitempty"`
	Std    float64             `json:"std,omitempty" yaml:"std,omitempty"`
	Min    float64             `json:"min,omitempty" yaml:"min,omitempty"`
	Max    float64             `json:"max,omitempty" yaml:"max,omitempty"`
}

// NormalizationData 是一个稠密字段的归一化规格：
// 按列给出参数，列序与字段张量的最后一维对齐。
type NormalizationData struct {
	Columns []NormalizationParameters `json:"columns" yaml:"columns"`
}

// SparseFeature 声明一个稀疏特征：特征 id 与可嵌入的命名空间名。
type SparseFeature struct {
	FeatureID int64  `json:"feature_id" yaml:"feature_id"`
	Name      string `json:"name" yaml:"name"`
}

// ModelFeatureConfig 声明模型消费的稀疏特征集合。
// 空配置表示不使用稀疏特征：对应字段会被降级为 Absent 而不是报错。
type ModelFeatureConfig struct {
	IDListFeatures      []SparseFeature `json:"id_list_features,omitempty" yaml:"id_list_features,omitempty"`
	IDScoreListFeatures []SparseFeature `json:"id_score_list_features,omitempty" yaml:"id_score_list_features,omitempty"`
}

// Enabled 判断是否声明了任何稀疏特征。
func (c ModelFeatureConfig) Enabled() bool {
	return len(c.IDListFeatures) > 0 || len(c.IDScoreListFeatures) > 0
}

// ID2Name 返回特征 id 到命名空间名的合并映射。
func (c ModelFeatureConfig) ID2Name() map[int64]string {
	out := make(map[int64]string, len(c.IDListFeatures)+len(c.IDScoreListFeatures))
	for _, f := range c.IDListFeatures {
		out[f.FeatureID] = f.Name
	}
	for _, f := range c.IDScoreListFeatures {
		out[f.FeatureID] = f.Name
	}
	return out
}
