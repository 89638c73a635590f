package dto

// ── 部门模块 DTO ──

// DepartmentListRequest 部门列表查询参数
type DepartmentListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name        string  `json:"name"        binding:"required,min=2,max=100"`
	Description string  `json:"description" binding:"omitempty,max=500"`
	LeadID      *string `json:"lead_id"     binding:"omitempty,uuid"`
}

// UpdateDepartmentRequest 更新部门请求
type UpdateDepartmentRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	LeadID      *string `json:"lead_id"     binding:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active"`
}

// DepartmentResponse 部门详情响应
type DepartmentResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Lead        *UserResponse `json:"lead,omitempty"`
	IsActive    bool          `json:"is_active"`
	MemberCount int64         `json:"member_count"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

// ── 路由规则 DTO ──

// CreateRoutingRuleRequest 创建路由规则请求
type CreateRoutingRuleRequest struct {
	RequestType string `json:"request_type" binding:"required,oneof=event web technical graphic"`
	Department  string `json:"department"   binding:"required,min=2,max=100"`
}

// UpdateRoutingRuleRequest 更新路由规则请求
type UpdateRoutingRuleRequest struct {
	Department *string `json:"department" binding:"omitempty,min=2,max=100"`
	IsActive   *bool   `json:"is_active"`
}

// RoutingRuleResponse 路由规则响应
type RoutingRuleResponse struct {
	ID          string `json:"id"`
	RequestType string `json:"request_type"`
	Department  string `json:"department"`
	IsActive    bool   `json:"is_active"`
}
