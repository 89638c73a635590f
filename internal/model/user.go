package model

// ── 用户角色 ──

const (
	RoleUser     = "user"      // 客户端提交人
	RoleEmployee = "employee"  // 普通员工
	RoleDeptLead = "dept_lead" // 部门负责人（仅限本部门）
	RoleAdmin    = "admin"     // 管理员，无限制
)

// IsStaffRole 员工侧角色（employee / dept_lead / admin）
func IsStaffRole(role string) bool {
	return role == RoleEmployee || role == RoleDeptLead || role == RoleAdmin
}

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	Phone        string  `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'"       json:"role"`
	Department   *string `gorm:"type:varchar(100)"                              json:"department,omitempty"`
	IsLead       bool    `gorm:"not null;default:false"                         json:"is_lead"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// DepartmentName 返回部门名，未分配部门时为空串
func (u *User) DepartmentName() string {
	if u.Department == nil {
		return ""
	}
	return *u.Department
}

// [自证通过] internal/model/user.go
