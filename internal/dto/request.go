package dto

// ── 请求模块 DTO ──

// CreateRequestRequest 创建请求（multipart 表单）
// 类型专属字段按 request_type 在 Service 层做必填校验
type CreateRequestRequest struct {
	RequestType string `form:"request_type" binding:"required,oneof=event web technical graphic"`
	Urgency     string `form:"urgency"      binding:"omitempty,oneof=normal urgent"`
	DueDate     string `form:"due_date"     binding:"omitempty"`

	// 提交时填写的联系方式（可与账号邮箱不同，创建邮件发往此邮箱）
	ContactName  string `form:"contact_name"  binding:"required,min=2,max=100"`
	ContactEmail string `form:"contact_email" binding:"required,email"`
	ContactPhone string `form:"contact_phone" binding:"omitempty,max=30"`

	// event
	EventName        string `form:"event_name"`
	MinistryInCharge string `form:"ministry_in_charge"`
	StartingDate     string `form:"starting_date"`
	EndingDate       string `form:"ending_date"`
	GraphicRequired  bool   `form:"graphic_required"`
	GraphicNotes     string `form:"graphic_notes"`
	Cost             string `form:"cost"`
	TicketsRequired  bool   `form:"tickets_required"`
	RegistrationLink string `form:"registration_link"`
	EquipmentList    string `form:"equipment_list"`

	// web
	Domain      string `form:"domain"`
	Description string `form:"description"`

	// technical
	IssueDescription   string `form:"issue_description"`
	IssueType          string `form:"issue_type"`
	Severity           string `form:"severity" binding:"omitempty,oneof=low medium high critical"`
	ReproSteps         string `form:"repro_steps"`
	DeviceInfo         string `form:"device_info"`
	ErrorText          string `form:"error_text"`
	AttemptedSolutions string `form:"attempted_solutions"`
	IssueStarted       string `form:"issue_started"`

	// graphic（event_name 复用上方字段）
	EventDate     string `form:"event_date"`
	Font          string `form:"font"`
	Color         string `form:"color"`
	ReusePrevious bool   `form:"reuse_previous"`
	ReusableItems string `form:"reusable_items"`

	// 已落盘的附件路径（由 Handler 层完成上传校验后填入）
	AttachmentPaths []string `form:"-"`
}

// RequestListRequest 请求列表查询参数
type RequestListRequest struct {
	PaginationRequest
	RequestType string `form:"request_type" binding:"omitempty,oneof=event web technical graphic"`
	Status      string `form:"status"       binding:"omitempty,oneof=pending in_progress completed cancelled on_hold"`
	Urgency     string `form:"urgency"      binding:"omitempty,oneof=normal urgent"`
}

// DepartmentListQuery 部门维度请求列表查询参数（admin 可指定部门）
type DepartmentListQuery struct {
	PaginationRequest
	Department string `form:"department" binding:"omitempty,max=100"`
}

// AssignRequestRequest 指派请求
type AssignRequestRequest struct {
	AssignedTo string `json:"assigned_to" binding:"required,uuid"`
	Department string `json:"department"  binding:"required,min=2,max=100"`
}

// UpdateStatusRequest 更新状态请求
type UpdateStatusRequest struct {
	Status    string `json:"status"     binding:"required,oneof=pending in_progress completed cancelled on_hold"`
	Notes     string `json:"notes"      binding:"omitempty,max=2000"`
	TimeSpent *int   `json:"time_spent" binding:"omitempty,min=0"`
}

// RequestResponse 请求列表行响应（含按查看者派生的字段）
type RequestResponse struct {
	ID                uint    `json:"id"`
	RequestNumber     string  `json:"request_number"`
	RequestType       string  `json:"request_type"`
	Status            string  `json:"status"`
	Urgency           string  `json:"urgency"`
	ClientID          string  `json:"client_id"`
	ContactName       string  `json:"contact_name"`
	ContactEmail      string  `json:"contact_email"`
	AssignedTo        *string `json:"assigned_to,omitempty"`
	AssigneeName      string  `json:"assignee_name,omitempty"`
	Department        *string `json:"department,omitempty"`
	DueDate           string  `json:"due_date,omitempty"`
	CompletedAt       string  `json:"completed_at,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	UnreadCount       int64   `json:"unread_count"`
	LastActivityAt    string  `json:"last_activity_at"`
	HasRecentActivity bool    `json:"has_recent_activity"`
}

// RequestDetailResponse 请求详情响应（含扩展记录）
type RequestDetailResponse struct {
	RequestResponse
	ContactPhone string      `json:"contact_phone,omitempty"`
	AssignedBy   *string     `json:"assigned_by,omitempty"`
	Extension    interface{} `json:"extension"`
}
