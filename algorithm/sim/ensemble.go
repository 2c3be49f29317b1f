package sim

import (
	"hash/fnv"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// minParallelPaths 低于该路径数时串行生成，避免调度开销.
const minParallelPaths = 64

// PathSeed 单标的模式下第 index 条路径的种子 (无符号回绕加法).
func PathSeed(base uint64, index int) uint64 {
	return base + uint64(index)
}

// InstrumentSeed 组合模式下第 index 条路径的种子，混入标的符号的 FNV-1a 哈希以去相关.
func InstrumentSeed(base uint64, index int, symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return base + uint64(index) + h.Sum64()
}

// IsAntithetic 开启对偶变量时，奇数下标 (从 0 开始) 的路径取反正态抽样.
func IsAntithetic(enabled bool, index int) bool {
	return enabled && index%2 == 1
}

// Generator 描述一个标的的路径集合生成任务.
// History 仅供 Bootstrap 使用，生成期间只读.
type Generator struct {
	Model        ModelSpec
	InitialPrice float64
	Horizon      int
	Dt           float64
	Antithetic   bool
	History      []float64
	// Seed 由路径下标推导种子，为空时使用 PathSeed(BaseSeed, i).
	Seed     func(index int) uint64
	BaseSeed uint64
	// Concurrency 最大并发数，<= 0 时取 GOMAXPROCS.
	Concurrency int
}

func (g *Generator) seedFor(index int) uint64 {
	if g.Seed != nil {
		return g.Seed(index)
	}
	return PathSeed(g.BaseSeed, index)
}

// SimulateMultiplePaths 并行生成 paths 条路径.
// 每条路径只写入自己的槽位，结果与并发度和调度顺序无关.
func (g *Generator) SimulateMultiplePaths(paths int) ([][]float64, error) {
	fn, err := resolve(g.Model, g.History)
	if err != nil {
		return nil, err
	}

	allPaths := make([][]float64, paths)
	build := func(i int) {
		allPaths[i] = fn(PathParams{
			InitialPrice: g.InitialPrice,
			Horizon:      g.Horizon,
			Dt:           g.Dt,
			Antithetic:   IsAntithetic(g.Antithetic, i),
			Seed:         g.seedFor(i),
		})
	}

	workers := g.Concurrency
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if paths < minParallelPaths || workers == 1 {
		for i := range paths {
			build(i)
		}
		return allPaths, nil
	}

	p := pool.New().WithMaxGoroutines(workers)
	for i := range paths {
		p.Go(func() { build(i) })
	}
	p.Wait()

	return allPaths, nil
}
