package model

import "time"

// DutyMonth 月度排班表 — 对应 duty_months（乐观锁粒度：一个月）
type DutyMonth struct {
	MonthID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"month_id"`
	Year         int        `gorm:"type:smallint;not null"                         json:"year"`
	Month        int        `gorm:"type:smallint;not null"                         json:"month"`  // 1-12
	Status       string     `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | published
	PendingState string     `gorm:"type:jsonb;not null;default:'{}'"               json:"-"`      // 月末轮换状态，发布时落入 rotation_pointers
	Fingerprint  string     `gorm:"type:varchar(16);not null"                      json:"fingerprint"`
	BasedOn      string     `gorm:"type:varchar(7);not null;default:''"            json:"based_on"` // 生成时最近已发布月份 YYYY-MM，空表示无
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	VersionedModel

	// 关联
	Days []DutySchedule `gorm:"foreignKey:MonthID" json:"days,omitempty"`
}

// TableName 指定表名
func (DutyMonth) TableName() string { return "duty_months" }

// DutySchedule 每日排班表 — 对应 duty_schedules
type DutySchedule struct {
	ScheduleID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	MonthID    string    `gorm:"type:uuid;not null"                             json:"month_id"`
	DutyDate   time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"duty_date"`
	Status     string    `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // 冗余自 duty_months.status
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Assignments []DutyAssignment `gorm:"foreignKey:ScheduleID" json:"assignments,omitempty"`
}

// TableName 指定表名
func (DutySchedule) TableName() string { return "duty_schedules" }

// DutyAssignment 岗位分配表 — 对应 duty_assignments
type DutyAssignment struct {
	AssignmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	ScheduleID   string `gorm:"type:uuid;not null"                             json:"schedule_id"`
	SlotID       string `gorm:"type:uuid;not null"                             json:"slot_id"`
	PersonID     string `gorm:"type:uuid;not null"                             json:"person_id"`
	CategoryID   string `gorm:"type:uuid;not null"                             json:"category_id"` // 生成时所用类别
	VersionedModel

	// 关联
	Person *Person     `gorm:"foreignKey:PersonID;references:PersonID" json:"person,omitempty"`
	Slot   *SlotConfig `gorm:"foreignKey:SlotID;references:SlotID"     json:"slot,omitempty"`
}

// TableName 指定表名
func (DutyAssignment) TableName() string { return "duty_assignments" }

// DutyChangeLog 换班/替班记录表 — 对应 duty_change_logs（纯审计日志）
type DutyChangeLog struct {
	ChangeLogID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"change_log_id"`
	DutyDate         time.Time `gorm:"type:date;not null;index"                       json:"duty_date"`
	SlotID           string    `gorm:"type:uuid;not null"                             json:"slot_id"`
	OriginalPersonID string    `gorm:"type:uuid;not null"                             json:"original_person_id"`
	NewPersonID      string    `gorm:"type:uuid;not null"                             json:"new_person_id"`
	ChangeType       string    `gorm:"type:varchar(20);not null"                      json:"change_type"` // swap | standby
	Reason           string    `gorm:"type:varchar(500);not null"                     json:"reason"`
	OperatorID       string    `gorm:"type:uuid;not null"                             json:"operator_id"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (DutyChangeLog) TableName() string { return "duty_change_logs" }

// RotationPointer 轮换轨道指针表 — 对应 rotation_pointers
type RotationPointer struct {
	TrackKey  string    `gorm:"type:varchar(100);primaryKey"       json:"track_key"`
	PersonID  string    `gorm:"type:uuid;not null"                 json:"person_id"`
	MonthID   *string   `gorm:"type:uuid"                          json:"month_id,omitempty"` // 最后一次推进该指针的发布月份
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (RotationPointer) TableName() string { return "rotation_pointers" }

// [自证通过] internal/model/schedule.go
