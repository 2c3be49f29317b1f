package finance

import (
	"gonum.org/v1/gonum/stat"

	"github.com/wyfcoding/montecarlo/xerrors"
)

// BarrierEvent 障碍 (止损或目标价) 的首次触发记录.
type BarrierEvent struct {
	Hit        bool     `json:"hit"`
	TimeStep   *int     `json:"time_step,omitempty"`
	PriceAtHit *float64 `json:"price_at_hit,omitempty"`
}

// NotHit 未触发状态.
func NotHit() BarrierEvent {
	return BarrierEvent{}
}

// HitAt 在第 step 步以 price 触发.
func HitAt(step int, price float64) BarrierEvent {
	return BarrierEvent{Hit: true, TimeStep: &step, PriceAtHit: &price}
}

// CheckStopLoss 返回首个价格 <= stopLoss 的步.
func CheckStopLoss(path []float64, stopLoss float64) BarrierEvent {
	for step, price := range path {
		if price <= stopLoss {
			return HitAt(step, price)
		}
	}
	return NotHit()
}

// CheckTarget 返回首个价格 >= target 的步.
func CheckTarget(path []float64, target float64) BarrierEvent {
	for step, price := range path {
		if price >= target {
			return HitAt(step, price)
		}
	}
	return NotHit()
}

// CheckBarriers 独立扫描止损与目标价，两者之间没有优先级.
// 阈值为空时对应结果为未触发且不扫描.
func CheckBarriers(path []float64, stopLoss, target *float64) (sl, tgt BarrierEvent) {
	if stopLoss != nil {
		sl = CheckStopLoss(path, *stopLoss)
	}
	if target != nil {
		tgt = CheckTarget(path, *target)
	}
	return sl, tgt
}

// HitStatistics 路径集合上的障碍触发统计.
// 没有任何路径触发时平均触发时间为 nil.
type HitStatistics struct {
	ProbHitStopLoss   float64  `json:"prob_hit_stoploss"`
	ProbHitTarget     float64  `json:"prob_hit_target"`
	AvgTimeToStopLoss *float64 `json:"avg_time_to_stoploss,omitempty"`
	AvgTimeToTarget   *float64 `json:"avg_time_to_target,omitempty"`
}

// CalculateHitStatistics 统计触发概率与平均触发步数.
func CalculateHitStatistics(paths [][]float64, stopLoss, target *float64) (HitStatistics, error) {
	if len(paths) == 0 {
		return HitStatistics{}, xerrors.Errorf(xerrors.ErrEmptyEnsemble, "no paths for hit statistics")
	}

	var slTimes, tgtTimes []float64
	for _, path := range paths {
		sl, tgt := CheckBarriers(path, stopLoss, target)
		if sl.Hit {
			slTimes = append(slTimes, float64(*sl.TimeStep))
		}
		if tgt.Hit {
			tgtTimes = append(tgtTimes, float64(*tgt.TimeStep))
		}
	}

	total := float64(len(paths))
	return HitStatistics{
		ProbHitStopLoss:   float64(len(slTimes)) / total,
		ProbHitTarget:     float64(len(tgtTimes)) / total,
		AvgTimeToStopLoss: meanOrNil(slTimes),
		AvgTimeToTarget:   meanOrNil(tgtTimes),
	}, nil
}

func meanOrNil(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := stat.Mean(values, nil)
	return &m
}
