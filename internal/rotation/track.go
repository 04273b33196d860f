package rotation

import "sort"

// TrackKey 计算类别在某类日期使用的轮换轨道
//
//   - unified_loop: 只有 {id}_unified 一条轨道
//   - split_loop:   {id}_holiday / {id}_workday 两条轨道；
//     规则含 deholiday 时仅法定节假日走 holiday 轨道，周末并入 workday 轨道；
//     否则周末与节假日都走 holiday 轨道
func TrackKey(categoryID string, strategy Strategy, dt DateType, types []RuleType) string {
	if strategy != StrategySplit {
		return categoryID + "_unified"
	}
	holidayTrack := dt == DateHoliday
	if dt == DateWeekend {
		holidayTrack = !(Rule{Types: types}).Has(RuleDeholiday)
	}
	if holidayTrack {
		return categoryID + "_holiday"
	}
	return categoryID + "_workday"
}

// BuildPools 按类别构建候选池
//
// 仅收录 active 中存在且未豁免的条目，按 SortOrder 升序稳定排序。
// 同一人员在同一类别重复出现时只保留第一条。
func BuildPools(roster []RosterEntry, active map[string]bool) map[string][]string {
	grouped := make(map[string][]RosterEntry)
	for _, e := range roster {
		if e.IsExempt || !active[e.PersonID] {
			continue
		}
		grouped[e.CategoryID] = append(grouped[e.CategoryID], e)
	}

	pools := make(map[string][]string, len(grouped))
	for catID, entries := range grouped {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].SortOrder < entries[j].SortOrder
		})
		seen := make(map[string]bool, len(entries))
		pool := make([]string, 0, len(entries))
		for _, e := range entries {
			if seen[e.PersonID] {
				continue
			}
			seen[e.PersonID] = true
			pool = append(pool, e.PersonID)
		}
		pools[catID] = pool
	}
	return pools
}

// Next 轮询选人
//
// 从 lastID 的下一位开始环形遍历至多 len(pool) 步，返回第一个当天未被占用的人。
// lastID 不在池中时从队首开始。整池都已占用时返回 false。
func Next(pool []string, lastID string, used map[string]bool) (string, bool) {
	n := len(pool)
	if n == 0 {
		return "", false
	}
	start := -1
	for i, id := range pool {
		if id == lastID {
			start = i
			break
		}
	}
	for step := 1; step <= n; step++ {
		candidate := pool[(start+step)%n]
		if !used[candidate] {
			return candidate, true
		}
	}
	return "", false
}
