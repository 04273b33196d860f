package service

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"office-duty/internal/model"
	"office-duty/internal/rotation"
)

// ── ICS 节假日解析器 ──────────────────────────────────────────
//
// 将节假日订阅日历（RFC 5545）解析为日历覆盖：
//   - 仅处理全天事件（DTSTART 为日期格式），DTEND 为开区间
//   - SUMMARY 含补班标记的事件视为调休工作日，其余视为节假日
//   - 同一日期同时出现两类事件时以补班为准
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
	icsMaxEventDays = 31 // 单个事件最多展开的天数
)

// makeUpMarkers 调休补班标记（不区分大小写）
var makeUpMarkers = []string{"补班", "调班", "上班", "workday", "make-up", "makeup"}

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseHolidayICS 解析节假日日历，返回按日期升序的覆盖与跳过的事件数
func ParseHolidayICS(reader io.Reader) ([]model.CalendarOverride, int, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, 0, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	byDate := make(map[string]model.CalendarOverride)
	skipped := 0
	for _, evt := range cal.Events() {
		dates, name, typ, ok := parseHolidayEvent(evt)
		if !ok {
			skipped++
			continue
		}
		for _, d := range dates {
			key := rotation.DateKey(d)
			if prev, exists := byDate[key]; exists && prev.Type == string(rotation.OverrideWorkday) {
				continue
			}
			byDate[key] = model.CalendarOverride{
				Date:   d,
				Type:   string(typ),
				Name:   name,
				Source: "ics",
			}
		}
	}

	result := make([]model.CalendarOverride, 0, len(byDate))
	for _, o := range byDate {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, skipped, nil
}

// parseHolidayEvent 解析单个全天 VEVENT，返回覆盖的日期列表
func parseHolidayEvent(evt *ics.VEvent) ([]time.Time, string, rotation.OverrideType, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return nil, "", "", false
	}
	name := strings.TrimSpace(summary.Value)

	start, ok := parseICSDate(evt, ics.ComponentPropertyDtStart)
	if !ok {
		return nil, "", "", false
	}
	end, ok := parseICSDate(evt, ics.ComponentPropertyDtEnd)
	if !ok || !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	var dates []time.Time
	for d := start; d.Before(end) && len(dates) < icsMaxEventDays; d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	typ := rotation.OverrideHoliday
	if isMakeUpDay(name) {
		typ = rotation.OverrideWorkday
	}
	return dates, name, typ, true
}

// parseICSDate 仅接受全天日期格式（YYYYMMDD），带时间的事件视为非节假日
func parseICSDate(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, bool) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", strings.TrimSpace(prop.Value))
	if err != nil {
		return time.Time{}, false
	}
	return rotation.DateOf(t), true
}

func isMakeUpDay(summary string) bool {
	s := strings.ToLower(summary)
	for _, m := range makeUpMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
