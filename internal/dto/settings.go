package dto

// ── 系统设置模块 DTO ──

// UpdateSettingsRequest 批量更新某分类下的设置项
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

// SettingsResponse 某分类下的全部设置项
type SettingsResponse struct {
	Category string            `json:"category"`
	Settings map[string]string `json:"settings"`
}

// ── 邮件模板模块 DTO ──

// CreateEmailTemplateRequest 创建邮件模板请求
type CreateEmailTemplateRequest struct {
	Name     string `json:"name"      binding:"required,min=2,max=100"`
	Subject  string `json:"subject"   binding:"required,max=255"`
	BodyHTML string `json:"body_html" binding:"required"`
}

// UpdateEmailTemplateRequest 更新邮件模板请求
type UpdateEmailTemplateRequest struct {
	Subject  *string `json:"subject"   binding:"omitempty,max=255"`
	BodyHTML *string `json:"body_html"`
	IsActive *bool   `json:"is_active"`
}

// PreviewEmailTemplateRequest 模板预览请求（变量替换）
type PreviewEmailTemplateRequest struct {
	Variables map[string]string `json:"variables"`
}

// PreviewEmailTemplateResponse 模板预览响应
type PreviewEmailTemplateResponse struct {
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
}

// TestSendEmailRequest 模板测试发送请求
type TestSendEmailRequest struct {
	To        string            `json:"to" binding:"required,email"`
	Variables map[string]string `json:"variables"`
}

// EmailTemplateResponse 邮件模板响应
type EmailTemplateResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	BodyHTML  string `json:"body_html"`
	IsActive  bool   `json:"is_active"`
	UpdatedAt string `json:"updated_at"`
}
