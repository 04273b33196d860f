// Package rotation 值班轮换排班引擎。
//
// 引擎是纯计算：所有输入以参数传入，所有结果以返回值给出，
// 不读写存储、不读取时钟、不持有全局状态。同样的输入必然得到同样的输出。
package rotation

import (
	"fmt"
	"time"
)

// DateType 日期分类
type DateType string

const (
	DateWorkday DateType = "workday"
	DateWeekend DateType = "weekend"
	DateHoliday DateType = "holiday"
)

// Strategy 类别轮换策略
type Strategy string

const (
	// StrategyUnified 单轨：所有日期共用一条轮换队列
	StrategyUnified Strategy = "unified_loop"
	// StrategySplit 双轨：节假日与工作日各自轮换
	StrategySplit Strategy = "split_loop"
)

// RuleType 参与规则类型
type RuleType string

const (
	RuleOrdinary  RuleType = "ordinary"
	RuleWorkday   RuleType = "workday"
	RuleWeekend   RuleType = "weekend"
	RuleHoliday   RuleType = "holiday"
	RuleDeholiday RuleType = "deholiday" // 除法定节假日外每天都参与
)

// OverrideType 日历覆盖类型
type OverrideType string

const (
	OverrideHoliday OverrideType = "holiday"
	OverrideWorkday OverrideType = "workday_override"
)

// Status 排班状态
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ChangeType 变更类型（两者机制相同，仅审计标签不同）
type ChangeType string

const (
	ChangeSwap    ChangeType = "swap"
	ChangeStandby ChangeType = "standby"
)

// Category 值班类别
type Category struct {
	ID       string
	Name     string
	Strategy Strategy
}

// Rule 类别参与规则
type Rule struct {
	CategoryID string
	Types      []RuleType
}

// Has 规则是否包含指定类型
func (r Rule) Has(t RuleType) bool {
	for _, v := range r.Types {
		if v == t {
			return true
		}
	}
	return false
}

// RosterEntry 人员 × 类别 的花名册条目
type RosterEntry struct {
	PersonID   string
	CategoryID string
	IsExempt   bool
	SortOrder  int
}

// Slot 每日值班岗位
type Slot struct {
	ID                 string
	Name               string
	SortOrder          int
	AllowedCategoryIDs []string // 按顺序尝试，直到填满
}

// Override 指定日期的日历覆盖
type Override struct {
	Date time.Time
	Type OverrideType
	Name string
}

// State 轮换状态：轨道 key → 该轨道最后一次分配的人员 ID
type State map[string]string

// Clone 返回状态副本
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Assignment 一个岗位的分配结果
type Assignment struct {
	SlotID     string
	PersonID   string
	CategoryID string
}

// Day 单日排班
type Day struct {
	Date        time.Time
	Status      Status
	Assignments []Assignment
}

// PersonOn 返回某岗位的当班人员
func (d Day) PersonOn(slotID string) (string, bool) {
	for _, a := range d.Assignments {
		if a.SlotID == slotID {
			return a.PersonID, true
		}
	}
	return "", false
}

// Has 当天是否排了该人员
func (d Day) Has(personID string) bool {
	for _, a := range d.Assignments {
		if a.PersonID == personID {
			return true
		}
	}
	return false
}

// ChangeLog 换班/替班审计记录
type ChangeLog struct {
	Date             time.Time
	SlotID           string
	OriginalPersonID string
	NewPersonID      string
	Reason           string
	OperatorID       string
	Type             ChangeType
	CreatedAt        time.Time
}

// ── 日期与月份 ──

// DateKey 日期的规范化 key：YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DateOf 将任意时间规整为 UTC 零点
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Month 年月
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf 返回日期所在月份
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Next 下一个月
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Days 当月天数
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date 当月第 day 天
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// Contains 日期是否落在该月
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// Before 是否早于另一月份
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
