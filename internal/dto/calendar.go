package dto

// ── 日历模块 DTO ──

// OverrideListRequest 日历覆盖查询参数
type OverrideListRequest struct {
	Year int `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// OverrideResponse 日历覆盖
type OverrideResponse struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Type   string `json:"type"` // holiday | workday_override
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`
}

// ImportHolidaysResponse 节假日导入结果
type ImportHolidaysResponse struct {
	Total    int `json:"total"`    // 写入的日期数
	Holidays int `json:"holidays"` // 节假日
	Workdays int `json:"workdays"` // 调休补班
	Skipped  int `json:"skipped"`  // 非全天或无法解析的事件
}

// ImportHolidaysURLRequest 从订阅地址导入节假日
type ImportHolidaysURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}
