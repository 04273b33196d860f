package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"office-duty/internal/model"
	"office-duty/internal/repository"
	pkgerrors "office-duty/pkg/errors"
	"office-duty/pkg/redis"
)

// mockStore 所有 mock repo 共享的内存存储，模拟外键级联与预加载
type mockStore struct {
	seq        int
	persons    map[string]*model.Person
	categories map[string]*model.DutyCategory
	rules      []model.DutyRule
	roster     []model.RosterEntry
	slots      []model.SlotConfig
	overrides  map[string]model.CalendarOverride
	months     map[string]*model.DutyMonth
	schedules  map[string]*model.DutySchedule
	changeLogs []model.DutyChangeLog
	pointers   map[string]model.RotationPointer
}

func newMockStore() *mockStore {
	return &mockStore{
		persons:    make(map[string]*model.Person),
		categories: make(map[string]*model.DutyCategory),
		overrides:  make(map[string]model.CalendarOverride),
		months:     make(map[string]*model.DutyMonth),
		schedules:  make(map[string]*model.DutySchedule),
		pointers:   make(map[string]model.RotationPointer),
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *mockStore) toRepository() *repository.Repository {
	repo := &repository.Repository{
		Person:     &mockPersonRepo{s},
		Category:   &mockCategoryRepo{s},
		Rule:       &mockRuleRepo{s},
		Roster:     &mockRosterRepo{s},
		Slot:       &mockSlotRepo{s},
		Calendar:   &mockCalendarRepo{s},
		Month:      &mockMonthRepo{s},
		Schedule:   &mockScheduleRepo{s},
		Assignment: &mockAssignmentRepo{s},
		ChangeLog:  &mockChangeLogRepo{s},
		Pointer:    &mockPointerRepo{s},
	}
	repo.Tx = &mockTx{repo: repo}
	return repo
}

// ── Mock TxRunner ──

type mockTx struct {
	repo *repository.Repository
}

func (m *mockTx) Transaction(_ context.Context, fn func(tx *repository.Repository) error) error {
	return fn(m.repo)
}

// ── Mock MonthLocker ──

type mockLocker struct {
	busy     bool
	err      error
	acquired []string
	released int
}

func (m *mockLocker) AcquireLock(_ context.Context, name string, _ time.Duration) (*redis.Lock, error) {
	if m.busy {
		return nil, pkgerrors.ErrLockNotAcquired
	}
	if m.err != nil {
		return nil, m.err
	}
	m.acquired = append(m.acquired, name)
	return &redis.Lock{}, nil
}

func (m *mockLocker) ReleaseLock(_ context.Context, _ *redis.Lock) error {
	m.released++
	return nil
}

// ── Mock PersonRepository ──

type mockPersonRepo struct{ s *mockStore }

func (m *mockPersonRepo) Create(_ context.Context, p *model.Person) error {
	if p.PersonID == "" {
		p.PersonID = m.s.nextID("person")
	}
	if p.Version == 0 {
		p.Version = 1
	}
	cp := *p
	m.s.persons[p.PersonID] = &cp
	return nil
}

func (m *mockPersonRepo) GetByID(_ context.Context, id string) (*model.Person, error) {
	if p, ok := m.s.persons[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) GetByEmployeeNo(_ context.Context, no string) (*model.Person, error) {
	for _, p := range m.s.persons {
		if p.EmployeeNo == no {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) ListActive(_ context.Context) ([]model.Person, error) {
	var out []model.Person
	for _, p := range m.s.persons {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeNo < out[j].EmployeeNo })
	return out, nil
}

func (m *mockPersonRepo) Update(_ context.Context, p *model.Person) error {
	cur, ok := m.s.persons[p.PersonID]
	if !ok || cur.Version != p.Version {
		return pkgerrors.ErrOptimisticLock
	}
	p.Version++
	cp := *p
	m.s.persons[p.PersonID] = &cp
	return nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct{ s *mockStore }

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.DutyCategory, error) {
	if c, ok := m.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*model.DutyCategory, error) {
	for _, c := range m.s.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.DutyCategory, error) {
	var out []model.DutyCategory
	for _, c := range m.s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Mock DutyRuleRepository ──

type mockRuleRepo struct{ s *mockStore }

func (m *mockRuleRepo) List(_ context.Context) ([]model.DutyRule, error) {
	return append([]model.DutyRule(nil), m.s.rules...), nil
}

// ── Mock RosterRepository ──

type mockRosterRepo struct{ s *mockStore }

func (m *mockRosterRepo) List(_ context.Context) ([]model.RosterEntry, error) {
	out := append([]model.RosterEntry(nil), m.s.roster...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *mockRosterRepo) ListByCategory(ctx context.Context, categoryID string) ([]model.RosterEntry, error) {
	all, _ := m.List(ctx)
	var out []model.RosterEntry
	for _, e := range all {
		if e.CategoryID == categoryID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRosterRepo) Upsert(_ context.Context, entry *model.RosterEntry) error {
	for i, e := range m.s.roster {
		if e.PersonID == entry.PersonID && e.CategoryID == entry.CategoryID {
			m.s.roster[i].IsExempt = entry.IsExempt
			m.s.roster[i].SortOrder = entry.SortOrder
			entry.EntryID = e.EntryID
			return nil
		}
	}
	if entry.EntryID == "" {
		entry.EntryID = m.s.nextID("entry")
	}
	m.s.roster = append(m.s.roster, *entry)
	return nil
}

// ── Mock SlotConfigRepository ──

type mockSlotRepo struct{ s *mockStore }

func (m *mockSlotRepo) ListActive(_ context.Context) ([]model.SlotConfig, error) {
	var out []model.SlotConfig
	for _, sl := range m.s.slots {
		if sl.IsActive {
			out = append(out, sl)
		}
	}
	return out, nil
}

// ── Mock CalendarOverrideRepository ──

type mockCalendarRepo struct{ s *mockStore }

func (m *mockCalendarRepo) List(_ context.Context) ([]model.CalendarOverride, error) {
	var out []model.CalendarOverride
	for _, o := range m.s.overrides {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockCalendarRepo) ListRange(ctx context.Context, from, to time.Time) ([]model.CalendarOverride, error) {
	all, _ := m.List(ctx)
	var out []model.CalendarOverride
	for _, o := range all {
		if !o.Date.Before(from) && !o.Date.After(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockCalendarRepo) Upsert(_ context.Context, overrides []model.CalendarOverride) error {
	for _, o := range overrides {
		key := o.Date.Format("2006-01-02")
		if prev, ok := m.s.overrides[key]; ok {
			o.OverrideID = prev.OverrideID
		} else {
			o.OverrideID = m.s.nextID("override")
		}
		m.s.overrides[key] = o
	}
	return nil
}

// ── Mock DutyMonthRepository ──

type mockMonthRepo struct{ s *mockStore }

func (m *mockMonthRepo) Create(_ context.Context, month *model.DutyMonth) error {
	for _, existing := range m.s.months {
		if existing.Year == month.Year && existing.Month == month.Month {
			return fmt.Errorf("duplicate key: %04d-%02d", month.Year, month.Month)
		}
	}
	if month.MonthID == "" {
		month.MonthID = m.s.nextID("month")
	}
	month.Version = 1
	cp := *month
	m.s.months[month.MonthID] = &cp
	return nil
}

func (m *mockMonthRepo) GetByID(_ context.Context, id string) (*model.DutyMonth, error) {
	if mo, ok := m.s.months[id]; ok {
		cp := *mo
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMonthRepo) GetByYearMonth(_ context.Context, year, month int) (*model.DutyMonth, error) {
	for _, mo := range m.s.months {
		if mo.Year == year && mo.Month == month {
			cp := *mo
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMonthRepo) GetLatestPublished(_ context.Context) (*model.DutyMonth, error) {
	var latest *model.DutyMonth
	for _, mo := range m.s.months {
		if mo.Status != "published" {
			continue
		}
		if latest == nil || mo.Year*12+mo.Month > latest.Year*12+latest.Month {
			latest = mo
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *mockMonthRepo) Update(_ context.Context, month *model.DutyMonth) error {
	cur, ok := m.s.months[month.MonthID]
	if !ok || cur.Version != month.Version {
		return pkgerrors.ErrOptimisticLock
	}
	month.Version++
	cp := *month
	m.s.months[month.MonthID] = &cp
	return nil
}

func (m *mockMonthRepo) DeleteDraft(_ context.Context, id string, version int) error {
	cur, ok := m.s.months[id]
	if !ok || cur.Status != "draft" || cur.Version != version {
		return pkgerrors.ErrOptimisticLock
	}
	delete(m.s.months, id)
	for sid, d := range m.s.schedules {
		if d.MonthID == id {
			delete(m.s.schedules, sid)
		}
	}
	return nil
}

// ── Mock DutyScheduleRepository ──

type mockScheduleRepo struct{ s *mockStore }

// hydrate 返回带 Slot/Person 预加载的副本
func (m *mockScheduleRepo) hydrate(d *model.DutySchedule) model.DutySchedule {
	cp := *d
	cp.Assignments = make([]model.DutyAssignment, len(d.Assignments))
	for i, a := range d.Assignments {
		for j := range m.s.slots {
			if m.s.slots[j].SlotID == a.SlotID {
				sl := m.s.slots[j]
				a.Slot = &sl
			}
		}
		if p, ok := m.s.persons[a.PersonID]; ok {
			pc := *p
			a.Person = &pc
		}
		cp.Assignments[i] = a
	}
	return cp
}

func (m *mockScheduleRepo) sorted(filter func(*model.DutySchedule) bool) []model.DutySchedule {
	var out []model.DutySchedule
	for _, d := range m.s.schedules {
		if filter(d) {
			out = append(out, m.hydrate(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DutyDate.Before(out[j].DutyDate) })
	return out
}

func (m *mockScheduleRepo) BatchCreate(_ context.Context, days []model.DutySchedule) error {
	for _, d := range days {
		for _, existing := range m.s.schedules {
			if existing.DutyDate.Equal(d.DutyDate) {
				return fmt.Errorf("duplicate duty_date %s", d.DutyDate.Format("2006-01-02"))
			}
		}
		d.ScheduleID = m.s.nextID("day")
		as := make([]model.DutyAssignment, len(d.Assignments))
		for i, a := range d.Assignments {
			a.AssignmentID = m.s.nextID("asg")
			a.ScheduleID = d.ScheduleID
			a.Version = 1
			as[i] = a
		}
		d.Assignments = as
		cp := d
		m.s.schedules[d.ScheduleID] = &cp
	}
	return nil
}

func (m *mockScheduleRepo) GetByDate(_ context.Context, date time.Time) (*model.DutySchedule, error) {
	for _, d := range m.s.schedules {
		if d.DutyDate.Equal(date) {
			h := m.hydrate(d)
			return &h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListByMonth(_ context.Context, monthID string) ([]model.DutySchedule, error) {
	return m.sorted(func(d *model.DutySchedule) bool { return d.MonthID == monthID }), nil
}

func (m *mockScheduleRepo) ListRange(_ context.Context, from, to time.Time, status string) ([]model.DutySchedule, error) {
	return m.sorted(func(d *model.DutySchedule) bool {
		if d.DutyDate.Before(from) || d.DutyDate.After(to) {
			return false
		}
		return status == "" || d.Status == status
	}), nil
}

func (m *mockScheduleRepo) ListPublishedByPerson(_ context.Context, personID string) ([]model.DutySchedule, error) {
	return m.sorted(func(d *model.DutySchedule) bool {
		if d.Status != "published" {
			return false
		}
		for _, a := range d.Assignments {
			if a.PersonID == personID {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockScheduleRepo) UpdateStatusByMonth(_ context.Context, monthID, status string) error {
	for _, d := range m.s.schedules {
		if d.MonthID == monthID {
			d.Status = status
		}
	}
	return nil
}

// ── Mock DutyAssignmentRepository ──

type mockAssignmentRepo struct{ s *mockStore }

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.DutyAssignment) error {
	d, ok := m.s.schedules[a.ScheduleID]
	if !ok {
		return pkgerrors.ErrOptimisticLock
	}
	for i := range d.Assignments {
		cur := &d.Assignments[i]
		if cur.AssignmentID != a.AssignmentID {
			continue
		}
		if cur.Version != a.Version {
			return pkgerrors.ErrOptimisticLock
		}
		cur.PersonID = a.PersonID
		cur.UpdatedBy = a.UpdatedBy
		cur.Version++
		a.Version = cur.Version
		return nil
	}
	return pkgerrors.ErrOptimisticLock
}

// ── Mock DutyChangeLogRepository ──

type mockChangeLogRepo struct{ s *mockStore }

func (m *mockChangeLogRepo) Create(_ context.Context, l *model.DutyChangeLog) error {
	if l.ChangeLogID == "" {
		l.ChangeLogID = m.s.nextID("log")
	}
	m.s.changeLogs = append(m.s.changeLogs, *l)
	return nil
}

func (m *mockChangeLogRepo) List(_ context.Context, f repository.ChangeLogFilter, offset, limit int) ([]model.DutyChangeLog, int64, error) {
	var matched []model.DutyChangeLog
	for _, l := range m.s.changeLogs {
		if f.From != nil && l.DutyDate.Before(*f.From) {
			continue
		}
		if f.To != nil && l.DutyDate.After(*f.To) {
			continue
		}
		if f.PersonID != "" && l.OriginalPersonID != f.PersonID && l.NewPersonID != f.PersonID {
			continue
		}
		matched = append(matched, l)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// ── Mock RotationPointerRepository ──

type mockPointerRepo struct{ s *mockStore }

func (m *mockPointerRepo) List(_ context.Context) ([]model.RotationPointer, error) {
	var out []model.RotationPointer
	for _, p := range m.s.pointers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrackKey < out[j].TrackKey })
	return out, nil
}

func (m *mockPointerRepo) ReplaceAll(_ context.Context, pointers []model.RotationPointer) error {
	m.s.pointers = make(map[string]model.RotationPointer, len(pointers))
	for _, p := range pointers {
		m.s.pointers[p.TrackKey] = p
	}
	return nil
}
