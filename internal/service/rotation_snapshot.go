package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"office-duty/internal/dto"
	"office-duty/internal/model"
	"office-duty/internal/repository"
	"office-duty/internal/rotation"
)

// snapshot 一次排班运行所需的全部输入（从存储一次性读出）
type snapshot struct {
	config  rotation.Config
	active  map[string]bool
	persons map[string]model.Person
}

// loadSnapshot 读取类别、规则、岗位、日历覆盖、花名册与在岗人员
func loadSnapshot(ctx context.Context, repo *repository.Repository) (*snapshot, error) {
	cats, err := repo.Category.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询值班类别: %w", err)
	}
	rules, err := repo.Rule.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询参与规则: %w", err)
	}
	slots, err := repo.Slot.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询值班岗位: %w", err)
	}
	overrides, err := repo.Calendar.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询日历覆盖: %w", err)
	}
	roster, err := repo.Roster.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询花名册: %w", err)
	}
	persons, err := repo.Person.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询在岗人员: %w", err)
	}

	snap := &snapshot{
		active:  make(map[string]bool, len(persons)),
		persons: make(map[string]model.Person, len(persons)),
	}
	for _, p := range persons {
		snap.active[p.PersonID] = true
		snap.persons[p.PersonID] = p
	}

	for _, c := range cats {
		snap.config.Categories = append(snap.config.Categories, rotation.Category{
			ID:       c.CategoryID,
			Name:     c.Name,
			Strategy: rotation.Strategy(c.Strategy),
		})
	}
	for _, r := range rules {
		types := make([]rotation.RuleType, 0, len(r.RuleTypes))
		for _, t := range r.RuleTypes {
			types = append(types, rotation.RuleType(t))
		}
		snap.config.Rules = append(snap.config.Rules, rotation.Rule{CategoryID: r.CategoryID, Types: types})
	}
	for _, s := range slots {
		snap.config.Slots = append(snap.config.Slots, rotation.Slot{
			ID:                 s.SlotID,
			Name:               s.Name,
			SortOrder:          s.SortOrder,
			AllowedCategoryIDs: append([]string(nil), s.AllowedCategoryIDs...),
		})
	}
	snap.config.Overrides = toEngineOverrides(overrides)
	for _, e := range roster {
		snap.config.Roster = append(snap.config.Roster, rotation.RosterEntry{
			PersonID:   e.PersonID,
			CategoryID: e.CategoryID,
			IsExempt:   e.IsExempt,
			SortOrder:  e.SortOrder,
		})
	}
	return snap, nil
}

func toEngineOverrides(overrides []model.CalendarOverride) []rotation.Override {
	out := make([]rotation.Override, 0, len(overrides))
	for _, o := range overrides {
		out = append(out, rotation.Override{
			Date: rotation.DateOf(o.Date),
			Type: rotation.OverrideType(o.Type),
			Name: o.Name,
		})
	}
	return out
}

// ── 轮换状态 ──

func stateFromPointers(pointers []model.RotationPointer) rotation.State {
	state := make(rotation.State, len(pointers))
	for _, p := range pointers {
		state[p.TrackKey] = p.PersonID
	}
	return state
}

func pointersFromState(state rotation.State, monthID string, now time.Time) []model.RotationPointer {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.RotationPointer, 0, len(keys))
	for _, k := range keys {
		id := monthID
		out = append(out, model.RotationPointer{
			TrackKey:  k,
			PersonID:  state[k],
			MonthID:   &id,
			UpdatedAt: now,
		})
	}
	return out
}

func encodeState(state rotation.State) (string, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeState(raw string) (rotation.State, error) {
	state := rotation.State{}
	if raw == "" {
		return state, nil
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("解析待发布轮换状态: %w", err)
	}
	return state, nil
}

// ── 排班模型转换 ──

// sortAssignments 按岗位 sort_order、slot_id 排序（与引擎处理顺序一致）
func sortAssignments(as []model.DutyAssignment) {
	sort.SliceStable(as, func(i, j int) bool {
		oi, oj := slotOrder(as[i]), slotOrder(as[j])
		if oi != oj {
			return oi < oj
		}
		return as[i].SlotID < as[j].SlotID
	})
}

func slotOrder(a model.DutyAssignment) int {
	if a.Slot == nil {
		return 0
	}
	return a.Slot.SortOrder
}

func toEngineDay(d model.DutySchedule) rotation.Day {
	as := append([]model.DutyAssignment(nil), d.Assignments...)
	sortAssignments(as)
	day := rotation.Day{
		Date:        rotation.DateOf(d.DutyDate),
		Status:      rotation.Status(d.Status),
		Assignments: make([]rotation.Assignment, 0, len(as)),
	}
	for _, a := range as {
		day.Assignments = append(day.Assignments, rotation.Assignment{
			SlotID:     a.SlotID,
			PersonID:   a.PersonID,
			CategoryID: a.CategoryID,
		})
	}
	return day
}

func toEngineDays(days []model.DutySchedule) []rotation.Day {
	out := make([]rotation.Day, 0, len(days))
	for _, d := range days {
		out = append(out, toEngineDay(d))
	}
	return out
}

func toScheduleModels(monthID string, days []rotation.Day, operatorID string) []model.DutySchedule {
	out := make([]model.DutySchedule, 0, len(days))
	for _, d := range days {
		sched := model.DutySchedule{
			MonthID:     monthID,
			DutyDate:    d.Date,
			Status:      string(d.Status),
			Assignments: make([]model.DutyAssignment, 0, len(d.Assignments)),
		}
		for _, a := range d.Assignments {
			am := model.DutyAssignment{
				SlotID:     a.SlotID,
				PersonID:   a.PersonID,
				CategoryID: a.CategoryID,
			}
			if operatorID != "" {
				op := operatorID
				am.CreatedBy = &op
			}
			sched.Assignments = append(sched.Assignments, am)
		}
		out = append(out, sched)
	}
	return out
}

// ── 响应构建 ──

const timeLayout = "2006-01-02T15:04:05Z07:00"

func toMonthResponse(m *model.DutyMonth, days []model.DutySchedule, cal rotation.Calendar) *dto.MonthResponse {
	resp := &dto.MonthResponse{
		ID:          m.MonthID,
		Year:        m.Year,
		Month:       m.Month,
		Status:      m.Status,
		Version:     m.Version,
		Fingerprint: m.Fingerprint,
		BasedOn:     m.BasedOn,
		Days:        make([]dto.DayResponse, 0, len(days)),
		CreatedAt:   m.CreatedAt.Format(timeLayout),
		UpdatedAt:   m.UpdatedAt.Format(timeLayout),
	}
	if m.PublishedAt != nil {
		t := m.PublishedAt.Format(timeLayout)
		resp.PublishedAt = &t
	}
	for _, d := range days {
		resp.Days = append(resp.Days, toDayResponse(d, cal))
	}
	return resp
}

func toDayResponse(d model.DutySchedule, cal rotation.Calendar) dto.DayResponse {
	as := append([]model.DutyAssignment(nil), d.Assignments...)
	sortAssignments(as)
	resp := dto.DayResponse{
		ID:          d.ScheduleID,
		Date:        rotation.DateKey(d.DutyDate),
		DateType:    string(cal.Classify(d.DutyDate)),
		Status:      d.Status,
		Assignments: make([]dto.AssignmentResponse, 0, len(as)),
	}
	for _, a := range as {
		ar := dto.AssignmentResponse{
			ID:         a.AssignmentID,
			SlotID:     a.SlotID,
			PersonID:   a.PersonID,
			CategoryID: a.CategoryID,
			Version:    a.Version,
		}
		if a.Slot != nil {
			ar.Slot = &dto.SlotBrief{ID: a.Slot.SlotID, Name: a.Slot.Name}
		}
		if a.Person != nil {
			ar.Person = toPersonBrief(*a.Person)
		}
		resp.Assignments = append(resp.Assignments, ar)
	}
	return resp
}

func toPersonBrief(p model.Person) *dto.PersonBrief {
	return &dto.PersonBrief{ID: p.PersonID, Name: p.Name, EmployeeNo: p.EmployeeNo}
}

func toChangeLogResponse(l model.DutyChangeLog) dto.ChangeLogResponse {
	return dto.ChangeLogResponse{
		ID:               l.ChangeLogID,
		Date:             rotation.DateKey(l.DutyDate),
		SlotID:           l.SlotID,
		OriginalPersonID: l.OriginalPersonID,
		NewPersonID:      l.NewPersonID,
		ChangeType:       l.ChangeType,
		Reason:           l.Reason,
		OperatorID:       l.OperatorID,
		CreatedAt:        l.CreatedAt.Format(timeLayout),
	}
}

func monthOfModel(m *model.DutyMonth) rotation.Month {
	return rotation.Month{Year: m.Year, Month: time.Month(m.Month)}
}
