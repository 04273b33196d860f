package rotation

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// Config 一次排班运行所需的全部只读配置
type Config struct {
	Categories []Category
	Rules      []Rule
	Slots      []Slot
	Overrides  []Override
	Roster     []RosterEntry
}

// Plan 预处理后的配置：类别/规则索引、岗位顺序、候选池、日历
//
// 候选池每次运行重新构建，不做持久化；持久化的只有轨道指针。
type Plan struct {
	categories map[string]Category
	rules      map[string]Rule
	slots      []Slot
	pools      map[string][]string
	calendar   Calendar
}

// NewPlan 构建运行计划
func NewPlan(cfg Config, active map[string]bool) *Plan {
	p := &Plan{
		categories: make(map[string]Category, len(cfg.Categories)),
		rules:      make(map[string]Rule, len(cfg.Rules)),
		pools:      BuildPools(cfg.Roster, active),
		calendar:   NewCalendar(cfg.Overrides),
	}
	for _, c := range cfg.Categories {
		p.categories[c.ID] = c
	}
	for _, r := range cfg.Rules {
		p.rules[r.CategoryID] = r
	}

	p.slots = append([]Slot(nil), cfg.Slots...)
	sort.SliceStable(p.slots, func(i, j int) bool {
		if p.slots[i].SortOrder != p.slots[j].SortOrder {
			return p.slots[i].SortOrder < p.slots[j].SortOrder
		}
		return p.slots[i].ID < p.slots[j].ID
	})
	return p
}

// Calendar 计划使用的日历
func (p *Plan) Calendar() Calendar { return p.calendar }

// Pool 类别候选池（只读）
func (p *Plan) Pool(categoryID string) []string { return p.pools[categoryID] }

// AssignDay 填充单日所有岗位
//
// 岗位按固定顺序处理；每个岗位按配置顺序尝试允许的类别：
// 无规则或当日不参与的类别跳过，否则按轨道指针轮询选人。
// 选中后记录分配、标记当日已用、推进该轨道指针，并停止尝试后续类别。
// 所有类别都无人可派时岗位当日留空，不视为错误。state 会被原地推进。
func (p *Plan) AssignDay(date time.Time, state State) []Assignment {
	dt := p.calendar.Classify(date)
	used := make(map[string]bool)
	var out []Assignment

	for _, slot := range p.slots {
		for _, catID := range slot.AllowedCategoryIDs {
			rule, ok := p.rules[catID]
			if !ok || !Participates(rule, dt) {
				continue
			}
			cat, ok := p.categories[catID]
			if !ok {
				continue
			}
			key := TrackKey(catID, cat.Strategy, dt, rule.Types)
			personID, ok := Next(p.pools[catID], state[key], used)
			if !ok {
				continue
			}
			out = append(out, Assignment{SlotID: slot.ID, PersonID: personID, CategoryID: catID})
			used[personID] = true
			state[key] = personID
			break
		}
	}
	return out
}

// GenerateInput 月度排班输入
type GenerateInput struct {
	Month  Month
	Active map[string]bool // 在岗人员
	Config Config
	State  State // 起始轮换状态，不会被修改
}

// GenerateResult 月度排班输出
type GenerateResult struct {
	Days        []Day
	State       State  // 月末轮换状态快照
	Fingerprint uint64 // 输出指纹，同输入必同指纹
}

// Generate 生成整月排班
//
// 逐日升序运行单日分配，仅收录至少有一个岗位被填充的日期。
func Generate(in GenerateInput) GenerateResult {
	return NewPlan(in.Config, in.Active).Generate(in.Month, in.State)
}

// Generate 基于已构建的计划生成整月排班
func (p *Plan) Generate(month Month, start State) GenerateResult {
	state := start.Clone()
	var days []Day
	for d := 1; d <= month.Days(); d++ {
		date := month.Date(d)
		assignments := p.AssignDay(date, state)
		if len(assignments) == 0 {
			continue
		}
		days = append(days, Day{Date: date, Status: StatusDraft, Assignments: assignments})
	}
	return GenerateResult{
		Days:        days,
		State:       state,
		Fingerprint: Fingerprint(days, state),
	}
}

// Fingerprint 排班结果的 xxh3 指纹
//
// 编码：每日一行 "date|slot=person,..."，随后按 key 升序的状态行 "key=person"。
func Fingerprint(days []Day, state State) uint64 {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(DateKey(d.Date))
		b.WriteByte('|')
		for i, a := range d.Assignments {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(a.SlotID)
			b.WriteByte('=')
			b.WriteString(a.PersonID)
		}
		b.WriteByte('\n')
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(state[k])
		b.WriteByte('\n')
	}
	b.WriteString(strconv.Itoa(len(days)))
	return xxh3.HashString(b.String())
}
