package model

// RoutingRule 请求类型 → 部门 路由规则表 — 对应 routing_rules
// 创建请求时按类型查找启用中的规则；无规则时回退静态默认映射
type RoutingRule struct {
	RuleID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	RequestType string `gorm:"type:varchar(20);not null"                      json:"request_type"`
	Department  string `gorm:"type:varchar(100);not null"                     json:"department"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (RoutingRule) TableName() string { return "routing_rules" }

// DefaultDepartmentFor 静态默认映射：路由表无启用规则时的兜底
func DefaultDepartmentFor(requestType string) string {
	switch requestType {
	case TypeGraphic:
		return "Graphic Design"
	case TypeWeb:
		return "Web Support"
	case TypeTechnical:
		return "IT Support"
	case TypeEvent:
		return "Event Management"
	}
	return ""
}
