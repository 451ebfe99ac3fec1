// Package preprocessing 提供归一化与稀疏编码协作契约的参考实现。
//
// 流水线本身只依赖 core 中的接口；这里的实现供测试、示例
// 以及不需要自定义归一化引擎的使用方直接采用。
package preprocessing

import (
	"math"
	"sort"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// Preprocessor 按列归一化 (value, presence) 对：
// 列序与 NormalizationData.Columns 对齐，presence 为 0 的位置输出 0。
type Preprocessor struct {
	data   core.NormalizationData
	device core.Device
}

// New 创建 Preprocessor，是 core.NormalizerFactory 的实现。
func New(data core.NormalizationData, device core.Device) (core.Normalizer, error) {
	if len(data.Columns) == 0 {
		return nil, core.NewError(core.ModulePreprocessing, core.ErrorCodeMisconfigured, "",
			"normalization data declares no columns")
	}
	for i, p := range data.Columns {
		switch p.Method {
		case core.NormalizationIdentity, core.NormalizationZScore, core.NormalizationMinMax:
		default:
			return nil, core.Errorf(core.ModulePreprocessing, core.ErrorCodeMisconfigured, "",
				"column %d has unknown normalization method %q", i, p.Method)
		}
	}
	return &Preprocessor{data: data, device: device}, nil
}

func (p *Preprocessor) Normalize(value, presence *tensor.Tensor) (*tensor.Tensor, error) {
	if !tensor.SameShape(value, presence) {
		return nil, core.Errorf(core.ModulePreprocessing, core.ErrorCodeShapeViolation, "",
			"value shape %v does not match presence shape %v", value.Shape(), presence.Shape())
	}
	if value.Dims() != 2 {
		return nil, core.Errorf(core.ModulePreprocessing, core.ErrorCodeShapeViolation, "",
			"want 2-D (batch, features), got shape %v", value.Shape())
	}
	cols := value.Size(1)
	if cols != len(p.data.Columns) {
		return nil, core.Errorf(core.ModulePreprocessing, core.ErrorCodeShapeViolation, "",
			"value has %d columns, normalization data declares %d", cols, len(p.data.Columns))
	}

	out := value.Clone()
	rows := value.Size(0)
	for j := 0; j < cols; j++ {
		params := p.data.Columns[j]
		for i := 0; i < rows; i++ {
			if presence.At(i, j) == 0 {
				out.Set(0, i, j)
				continue
			}
			out.Set(normalizeValue(params, value.At(i, j)), i, j)
		}
	}
	return out, nil
}

func normalizeValue(p core.NormalizationParameters, v float64) float64 {
	switch p.Method {
	case core.NormalizationZScore:
		// z = (x - mean) / std
		if p.Std > 0 {
			return (v - p.Mean) / p.Std
		}
		return v - p.Mean
	case core.NormalizationMinMax:
		// x' = (x - min) / (max - min)
		if r := p.Max - p.Min; r > 0 {
			return (v - p.Min) / r
		}
		return 0
	default:
		return v
	}
}

// FitColumns 从逐列样本拟合归一化参数，供离线统计或测试使用。
// 只考虑 presence 为 1 的元素。
func FitColumns(method core.NormalizationMethod, value, presence *tensor.Tensor) (core.NormalizationData, error) {
	if !tensor.SameShape(value, presence) || value.Dims() != 2 {
		return core.NormalizationData{}, core.Errorf(core.ModulePreprocessing, core.ErrorCodeShapeViolation, "",
			"want matching 2-D (batch, features) pair, got %v and %v", value.Shape(), presence.Shape())
	}
	cols := value.Size(1)
	rows := value.Size(0)
	out := core.NormalizationData{Columns: make([]core.NormalizationParameters, cols)}
	for j := 0; j < cols; j++ {
		var samples []float64
		for i := 0; i < rows; i++ {
			if presence.At(i, j) != 0 {
				samples = append(samples, value.At(i, j))
			}
		}
		stats := computeStatistics(samples)
		out.Columns[j] = core.NormalizationParameters{
			Method: method,
			Mean:   stats.mean,
			Std:    stats.std,
			Min:    stats.min,
			Max:    stats.max,
		}
	}
	return out, nil
}

type statistics struct {
	mean, std, min, max float64
}

func computeStatistics(values []float64) statistics {
	if len(values) == 0 {
		return statistics{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}

	return statistics{
		mean: mean,
		std:  math.Sqrt(variance / float64(len(values))),
		min:  sorted[0],
		max:  sorted[len(sorted)-1],
	}
}
