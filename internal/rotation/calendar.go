package rotation

import "time"

// Calendar 日历覆盖索引：YYYY-MM-DD → Override
type Calendar map[string]Override

// NewCalendar 由覆盖列表构建日历；同一日期出现多次时后者生效
func NewCalendar(overrides []Override) Calendar {
	cal := make(Calendar, len(overrides))
	for _, o := range overrides {
		cal[DateKey(o.Date)] = o
	}
	return cal
}

// Classify 判定日期类型
//
// 精确日期覆盖优先：holiday → 节假日，其余覆盖类型一律视为工作日（调休上班）。
// 无覆盖时周六/周日为周末，其余为工作日。
func (c Calendar) Classify(date time.Time) DateType {
	if o, ok := c[DateKey(date)]; ok {
		if o.Type == OverrideHoliday {
			return DateHoliday
		}
		return DateWorkday
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return DateWeekend
	default:
		return DateWorkday
	}
}

// Participates 判定类别在某类日期是否参与值班
func Participates(rule Rule, dt DateType) bool {
	if rule.Has(RuleOrdinary) {
		return true
	}
	if rule.Has(RuleType(dt)) {
		return true
	}
	return rule.Has(RuleDeholiday) && (dt == DateWorkday || dt == DateWeekend)
}
