package dto

// ── 花名册模块 DTO ──

// ImportRosterResponse 花名册导入结果
type ImportRosterResponse struct {
	Rows            int              `json:"rows"`
	PersonsCreated  int              `json:"persons_created"`
	EntriesUpserted int              `json:"entries_upserted"`
	Errors          []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError 单行导入错误（Row 为表格中的行号，从 1 开始）
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
