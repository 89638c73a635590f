package dto

// ── 用户管理模块 DTO（管理员） ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role       string `form:"role"       binding:"omitempty,oneof=user employee dept_lead admin"`
	Department string `form:"department" binding:"omitempty,max=100"`
	Keyword    string `form:"keyword"    binding:"omitempty,max=50"`
}

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	Name       string `json:"name"       binding:"required,min=2,max=50"`
	Email      string `json:"email"      binding:"required,email"`
	Phone      string `json:"phone"      binding:"omitempty,max=30"`
	Role       string `json:"role"       binding:"required,oneof=user employee dept_lead admin"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	Name       *string `json:"name"       binding:"omitempty,min=2,max=50"`
	Email      *string `json:"email"      binding:"omitempty,email"`
	Phone      *string `json:"phone"      binding:"omitempty,max=30"`
	Role       *string `json:"role"       binding:"omitempty,oneof=user employee dept_lead admin"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	IsActive   *bool   `json:"is_active"`
}

// CreateUserResponse 创建用户响应（附临时密码）
type CreateUserResponse struct {
	User         *UserResponse `json:"user"`
	TempPassword string        `json:"temp_password"`
}
