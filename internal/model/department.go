package model

// Department 部门表 — 对应 departments
// 约束：一个负责人同一时间最多负责一个部门；
// 变更 lead_id 时由 Service 层在同一事务内完成旧负责人降级与新负责人提升
type Department struct {
	DepartmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Description  string  `gorm:"type:text"                                      json:"description,omitempty"`
	LeadID       *string `gorm:"type:uuid"                                      json:"lead_id,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Lead *User `gorm:"foreignKey:LeadID;references:UserID" json:"lead,omitempty"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }
