package rotation

import (
	"sort"
	"time"
)

// RecentLimit 统计中保留的最近值班日期数
const RecentLimit = 5

// PersonStats 个人值班统计
type PersonStats struct {
	PersonID string
	Total    int
	Workday  int
	Weekend  int
	Holiday  int
	Recent   []time.Time // 最近的值班日期，倒序
}

// Stats 汇总个人在已发布排班中的值班次数
//
// 同一天占多个岗位时按岗位计数。
func Stats(personID string, days []Day, cal Calendar) PersonStats {
	st := PersonStats{PersonID: personID}
	var dates []time.Time
	for _, d := range days {
		if d.Status != StatusPublished {
			continue
		}
		hits := 0
		for _, a := range d.Assignments {
			if a.PersonID == personID {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		st.Total += hits
		switch cal.Classify(d.Date) {
		case DateHoliday:
			st.Holiday += hits
		case DateWeekend:
			st.Weekend += hits
		default:
			st.Workday += hits
		}
		dates = append(dates, d.Date)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	if len(dates) > RecentLimit {
		dates = dates[:RecentLimit]
	}
	st.Recent = dates
	return st
}
