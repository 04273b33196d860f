package rotation

import "sort"

// DefaultStandbyLimit 替补推荐默认人数
const DefaultStandbyLimit = 4

// RecommendStandby 推荐替补人选（仅建议，不改动轮换状态）
//
// 按日期倒序扫描当月已发布排班，找到最近一次实际排到的该类别成员，
// 从池中其后一位开始环形取至多 limit 人；当月尚未排到该类别时从队首开始。
func RecommendStandby(pool []string, month []Day, limit int) []string {
	if len(pool) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultStandbyLimit
	}
	if limit > len(pool) {
		limit = len(pool)
	}

	index := make(map[string]int, len(pool))
	for i, id := range pool {
		index[id] = i
	}

	days := append([]Day(nil), month...)
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})

	last := -1
scan:
	for _, d := range days {
		if d.Status != StatusPublished {
			continue
		}
		// 同一天内后处理的岗位更"近"
		for i := len(d.Assignments) - 1; i >= 0; i-- {
			if idx, ok := index[d.Assignments[i].PersonID]; ok {
				last = idx
				break scan
			}
		}
	}

	out := make([]string, 0, limit)
	for step := 1; step <= limit; step++ {
		out = append(out, pool[(last+step)%len(pool)])
	}
	return out
}
