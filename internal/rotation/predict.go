package rotation

import "time"

// MaxPredictMonths 预测最多模拟的月数
const MaxPredictMonths = 24

// PredictInput 预测输入
type PredictInput struct {
	PersonID  string
	Count     int
	Start     Month
	State     State
	Active    map[string]bool
	Config    Config
	MaxMonths int // <=0 或超过 MaxPredictMonths 时取 MaxPredictMonths
}

// PredictResult 预测结果
type PredictResult struct {
	Dates           []time.Time
	MonthsSimulated int
	Complete        bool // 是否凑满 Count 个日期
}

// Predict 向后模拟若干个月，找出目标人员接下来的值班日期
//
// 每个月的月末状态作为下个月的起始状态，模拟结果不落库。
// 达到模拟上限仍不足 Count 个时返回已找到的部分。
func Predict(in PredictInput) PredictResult {
	limit := in.MaxMonths
	if limit <= 0 || limit > MaxPredictMonths {
		limit = MaxPredictMonths
	}
	var res PredictResult
	if in.Count <= 0 {
		res.Complete = true
		return res
	}

	plan := NewPlan(in.Config, in.Active)
	state := in.State
	month := in.Start
	for res.MonthsSimulated < limit {
		gen := plan.Generate(month, state)
		res.MonthsSimulated++
		for _, d := range gen.Days {
			if d.Has(in.PersonID) {
				res.Dates = append(res.Dates, d.Date)
				if len(res.Dates) == in.Count {
					res.Complete = true
					return res
				}
			}
		}
		state = gen.State
		month = month.Next()
	}
	return res
}
