package dto

// ── 统计报表模块 DTO ──

// BreakdownItem 单维度分组统计项
type BreakdownItem struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// PerformerItem 完成量排行项
type PerformerItem struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	CompletedCount int64  `json:"completed_count"`
}

// OverviewResponse 综合统计响应
type OverviewResponse struct {
	Total               int64           `json:"total"`
	ByStatus            []BreakdownItem `json:"by_status"`
	ByType              []BreakdownItem `json:"by_type"`
	ByDepartment        []BreakdownItem `json:"by_department"`
	AvgCompletionHours  float64         `json:"avg_completion_hours"`
	TopPerformers       []PerformerItem `json:"top_performers"`
	CompletedLast30Days int64           `json:"completed_last_30_days"`
	OpenUrgent          int64           `json:"open_urgent"`
}

// ExportRequest 报表导出参数
type ExportRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=xlsx csv"`
}
