package dto

// ── 值班轮换模块 DTO ──

// GenerateMonthRequest 生成月度排班请求
type GenerateMonthRequest struct {
	Year  int `json:"year"  binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// PublishMonthRequest 发布月度排班请求（version 用于乐观锁比对）
type PublishMonthRequest struct {
	Version int `json:"version" binding:"required,min=1"`
}

// MonthQuery 按年月查询
type MonthQuery struct {
	Year  int `form:"year"  binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// PredictQuery 值班预测查询参数
type PredictQuery struct {
	PersonID string `form:"person_id" binding:"required,uuid"`
	Count    int    `form:"count"     binding:"omitempty,min=1,max=100"`
}

// GetCount 预测次数（默认 5）
func (q *PredictQuery) GetCount() int {
	if q.Count <= 0 {
		return 5
	}
	return q.Count
}

// StandbyQuery 替补推荐查询参数
type StandbyQuery struct {
	Date       string `form:"date"        binding:"required,datetime=2006-01-02"`
	CategoryID string `form:"category_id" binding:"required,uuid"`
}

// ChangeDutyRequest 换班/替班请求
type ChangeDutyRequest struct {
	Date             string `json:"date"               binding:"required,datetime=2006-01-02"`
	SlotID           string `json:"slot_id"            binding:"required,uuid"`
	OriginalPersonID string `json:"original_person_id" binding:"required,uuid"`
	NewPersonID      string `json:"new_person_id"      binding:"required,uuid"`
	Reason           string `json:"reason"             binding:"required,min=1,max=500"`
}

// ChangeLogListRequest 变更日志列表查询参数（默认第 1 页，每页 20 条）
type ChangeLogListRequest struct {
	From     string `form:"from"      binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to"        binding:"omitempty,datetime=2006-01-02"`
	PersonID string `form:"person_id" binding:"omitempty,uuid"`
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

const defaultChangeLogPageSize = 20

func (r *ChangeLogListRequest) GetPage() int {
	return max(r.Page, 1)
}

func (r *ChangeLogListRequest) GetPageSize() int {
	if r.PageSize <= 0 {
		return defaultChangeLogPageSize
	}
	return r.PageSize
}

func (r *ChangeLogListRequest) GetOffset() int {
	return (r.GetPage() - 1) * r.GetPageSize()
}

// ── 响应 ──

// MonthResponse 月度排班响应
type MonthResponse struct {
	ID          string        `json:"id"`
	Year        int           `json:"year"`
	Month       int           `json:"month"`
	Status      string        `json:"status"`
	Version     int           `json:"version"`
	Fingerprint string        `json:"fingerprint"`
	BasedOn     string        `json:"based_on,omitempty"`
	PublishedAt *string       `json:"published_at,omitempty"`
	Days        []DayResponse `json:"days"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

// DayResponse 单日排班
type DayResponse struct {
	ID          string               `json:"id"`
	Date        string               `json:"date"`
	DateType    string               `json:"date_type"` // workday | weekend | holiday
	Status      string               `json:"status"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// AssignmentResponse 岗位分配
type AssignmentResponse struct {
	ID         string       `json:"id"`
	Slot       *SlotBrief   `json:"slot,omitempty"`
	Person     *PersonBrief `json:"person,omitempty"`
	SlotID     string       `json:"slot_id"`
	PersonID   string       `json:"person_id"`
	CategoryID string       `json:"category_id"`
	Version    int          `json:"version"`
}

// SlotBrief 岗位简要信息
type SlotBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PersonBrief 人员简要信息
type PersonBrief struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EmployeeNo string `json:"employee_no"`
}

// PredictResponse 值班预测结果
type PredictResponse struct {
	PersonID        string   `json:"person_id"`
	StartMonth      string   `json:"start_month"`
	Dates           []string `json:"dates"`
	MonthsSimulated int      `json:"months_simulated"`
	Complete        bool     `json:"complete"`
}

// StandbyResponse 替补推荐结果
type StandbyResponse struct {
	Date       string        `json:"date"`
	CategoryID string        `json:"category_id"`
	Candidates []PersonBrief `json:"candidates"`
}

// ChangeLogResponse 变更日志
type ChangeLogResponse struct {
	ID               string `json:"id"`
	Date             string `json:"date"`
	SlotID           string `json:"slot_id"`
	OriginalPersonID string `json:"original_person_id"`
	NewPersonID      string `json:"new_person_id"`
	ChangeType       string `json:"change_type"`
	Reason           string `json:"reason"`
	OperatorID       string `json:"operator_id"`
	CreatedAt        string `json:"created_at"`
}

// PersonStatsResponse 个人值班统计
type PersonStatsResponse struct {
	PersonID string   `json:"person_id"`
	Name     string   `json:"name"`
	Total    int      `json:"total"`
	Workday  int      `json:"workday"`
	Weekend  int      `json:"weekend"`
	Holiday  int      `json:"holiday"`
	Recent   []string `json:"recent"`
}

// PointerResponse 轮换轨道指针
type PointerResponse struct {
	TrackKey  string  `json:"track_key"`
	PersonID  string  `json:"person_id"`
	MonthID   *string `json:"month_id,omitempty"`
	UpdatedAt string  `json:"updated_at"`
}

// RotationStateResponse 当前轮换状态
type RotationStateResponse struct {
	LatestPublished string            `json:"latest_published,omitempty"`
	Pointers        []PointerResponse `json:"pointers"`
}
