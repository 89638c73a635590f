package model

// ── 设置分类 ──

const (
	SettingEmail        = "email"
	SettingSystem       = "system"
	SettingOrganization = "organization"
	SettingNotification = "notification"
	SettingSecurity     = "security"
	SettingMaintenance  = "maintenance"
)

// ValidSettingCategory 校验设置分类合法性
func ValidSettingCategory(c string) bool {
	switch c {
	case SettingEmail, SettingSystem, SettingOrganization,
		SettingNotification, SettingSecurity, SettingMaintenance:
		return true
	}
	return false
}

// Setting 系统设置表 — 对应 settings（分类 + 键 唯一）
type Setting struct {
	SettingID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"    json:"setting_id"`
	Category  string  `gorm:"type:varchar(30);not null;uniqueIndex:uq_settings_cat_key" json:"category"`
	Key       string  `gorm:"type:varchar(100);not null;uniqueIndex:uq_settings_cat_key" json:"key"`
	Value     string  `gorm:"type:text;not null"                                json:"value"`
	UpdatedBy *string `gorm:"type:uuid"                                         json:"updated_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Setting) TableName() string { return "settings" }

// EmailTemplate 邮件模板表 — 对应 email_templates
// 正文支持 {{变量}} 占位符，预览与发送时替换
type EmailTemplate struct {
	TemplateID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"template_id"`
	Name       string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Subject    string `gorm:"type:varchar(255);not null"                     json:"subject"`
	BodyHTML   string `gorm:"type:text;not null"                             json:"body_html"`
	IsActive   bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (EmailTemplate) TableName() string { return "email_templates" }
