package model

import "time"

// CalendarOverride 日历覆盖表 — 对应 calendar_overrides（每日期至多一条）
type CalendarOverride struct {
	OverrideID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"override_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"date"`
	Type       string    `gorm:"type:varchar(20);not null"                      json:"type"` // holiday | workday_override
	Name       string    `gorm:"type:varchar(100)"                              json:"name,omitempty"`
	Source     string    `gorm:"type:varchar(20);not null;default:'manual'"     json:"source"` // manual | ics
	BaseModel
}

// TableName 指定表名
func (CalendarOverride) TableName() string { return "calendar_overrides" }
