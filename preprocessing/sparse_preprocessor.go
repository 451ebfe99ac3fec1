package preprocessing

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"github.com/BerenLuthien/ReAgent/core"
	"github.com/BerenLuthien/ReAgent/tensor"
)

// DefaultHashBuckets 是每个稀疏特征的默认哈希桶数。
const DefaultHashBuckets = 64

// SparseEncoder 是稀疏 id 编码的参考实现：
// 用 FNV 哈希把 id 映射到固定数量的桶，逐特征产出 multi-hot 行块，
// 再按特征 id 升序把各块沿特征维拼接为 (batch, buckets*特征数) 张量。
// id-score-list 用权重代替 1 累加到对应桶。
type SparseEncoder struct {
	config  core.ModelFeatureConfig
	buckets int
}

// NewSparseEncoder 创建参考编码器，是 core.SparseEncoderFactory 的实现。
func NewSparseEncoder(config core.ModelFeatureConfig, device core.Device) (core.SparseEncoder, error) {
	return NewSparseEncoderWithBuckets(config, device, DefaultHashBuckets)
}

// NewSparseEncoderWithBuckets 以指定桶数创建参考编码器。
func NewSparseEncoderWithBuckets(config core.ModelFeatureConfig, _ core.Device, buckets int) (core.SparseEncoder, error) {
	if !config.Enabled() {
		return nil, core.NewError(core.ModulePreprocessing, core.ErrorCodeMisconfigured, "",
			"feature config declares no sparse features")
	}
	if buckets <= 0 {
		return nil, core.Errorf(core.ModulePreprocessing, core.ErrorCodeMisconfigured, "",
			"hash bucket count must be positive, got %d", buckets)
	}
	return &SparseEncoder{config: config, buckets: buckets}, nil
}

func (e *SparseEncoder) EncodeIDList(v core.IDList) (*tensor.Tensor, error) {
	features := sortedFeatureIDs(e.config.IDListFeatures)
	batch, err := batchSizeIDList(v)
	if err != nil {
		return nil, err
	}
	out := tensor.New(batch, e.buckets*len(features))
	for blk, fid := range features {
		entry, ok := v[fid]
		if !ok {
			continue // 未出现的特征保持全零块
		}
		if err := e.scatter(out, blk, entry.Offsets, entry.IDs, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *SparseEncoder) EncodeIDScoreList(v core.IDScoreList) (*tensor.Tensor, error) {
	features := sortedFeatureIDs(e.config.IDScoreListFeatures)
	batch, err := batchSizeIDScoreList(v)
	if err != nil {
		return nil, err
	}
	out := tensor.New(batch, e.buckets*len(features))
	for blk, fid := range features {
		entry, ok := v[fid]
		if !ok {
			continue
		}
		if len(entry.Scores) != len(entry.IDs) {
			return nil, core.Errorf(core.ModulePreprocessing, core.ErrorCodeShapeViolation, "",
				"feature %d has %d ids but %d scores", fid, len(entry.IDs), len(entry.Scores))
		}
		if err := e.scatter(out, blk, entry.Offsets, entry.IDs, entry.Scores); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// scatter 把一个特征的 id（可选带权）按样本累加到输出块里。
func (e *SparseEncoder) scatter(out *tensor.Tensor, block int, offsets, ids []int64, scores []float64) error {
	batch := out.Size(0)
	for row := 0; row < batch; row++ {
		start := int(offsets[row])
		end := len(ids)
		if row+1 < len(offsets) {
			end = int(offsets[row+1])
		}
		if start < 0 || end < start || end > len(ids) {
			return core.Errorf(core.ModulePreprocessing, core.ErrorCodeShapeViolation, "",
				"offsets %v do not index %d ids", offsets, len(ids))
		}
		for i, id := range ids[start:end] {
			weight := 1.0
			if scores != nil {
				weight = scores[start+i]
			}
			col := block*e.buckets + e.bucket(id)
			out.Set(out.At(row, col)+weight, row, col)
		}
	}
	return nil
}

func (e *SparseEncoder) bucket(id int64) int {
	h := fnv.New32a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	h.Write(buf[:])
	bucket := int(h.Sum32()) % e.buckets
	if bucket < 0 {
		bucket = -bucket
	}
	return bucket
}

func sortedFeatureIDs(features []core.SparseFeature) []int64 {
	out := make([]int64, len(features))
	for i, f := range features {
		out[i] = f.FeatureID
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func batchSizeIDList(v core.IDList) (int, error) {
	batch := -1
	for fid, entry := range v {
		if batch >= 0 && len(entry.Offsets) != batch {
			return 0, core.Errorf(core.ModulePreprocessing, core.ErrorCodeShapeViolation, "",
				"feature %d has %d offsets, other features have %d", fid, len(entry.Offsets), batch)
		}
		batch = len(entry.Offsets)
	}
	if batch < 0 {
		batch = 0
	}
	return batch, nil
}

func batchSizeIDScoreList(v core.IDScoreList) (int, error) {
	batch := -1
	for fid, entry := range v {
		if batch >= 0 && len(entry.Offsets) != batch {
			return 0, core.Errorf(core.ModulePreprocessing, core.ErrorCodeShapeViolation, "",
				"feature %d has %d offsets, other features have %d", fid, len(entry.Offsets), batch)
		}
		batch = len(entry.Offsets)
	}
	if batch < 0 {
		batch = 0
	}
	return batch, nil
}
