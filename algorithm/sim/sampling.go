package sim

import (
	"slices"

	"golang.org/x/exp/rand"
)

// ReservoirSampler 蓄水池采样，使用可复现的种子.
type ReservoirSampler[T any] struct {
	rng     *rand.Rand
	samples []T
	count   int
	k       int
}

// NewReservoirSampler 创建一个新的 ReservoirSampler 实例.
func NewReservoirSampler[T any](k int, seed uint64) *ReservoirSampler[T] {
	return &ReservoirSampler[T]{
		rng:     newRand(seed),
		k:       k,
		samples: make([]T, 0, k),
	}
}

// Observe 处理一个新到达的元素.
func (s *ReservoirSampler[T]) Observe(item T) {
	s.count++

	if len(s.samples) < s.k {
		s.samples = append(s.samples, item)
		return
	}
	if j := s.rng.Intn(s.count); j < s.k {
		s.samples[j] = item
	}
}

// GetSamples 获取当前池中的所有样本.
func (s *ReservoirSampler[T]) GetSamples() []T {
	return s.samples
}

// Reset 重置采样器.
func (s *ReservoirSampler[T]) Reset() {
	s.count = 0
	s.samples = s.samples[:0]
}

// SamplePaths 从路径集合中可复现地抽取至多 k 条路径用于展示，保持原有下标顺序.
// k <= 0 或 k >= len(paths) 时原样返回.
func SamplePaths(paths [][]float64, k int, seed uint64) [][]float64 {
	if k <= 0 || k >= len(paths) {
		return paths
	}

	sampler := NewReservoirSampler[int](k, seed)
	for i := range paths {
		sampler.Observe(i)
	}
	idx := slices.Clone(sampler.GetSamples())
	slices.Sort(idx)

	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = paths[j]
	}
	return out
}
