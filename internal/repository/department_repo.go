package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
)

// DepartmentRepository 部门数据访问接口
type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	GetByID(ctx context.Context, id string) (*model.Department, error)
	GetByName(ctx context.Context, name string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	ListAll(ctx context.Context) ([]model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id string) error
	CountMembers(ctx context.Context, name string) (int64, error)
	// UpdateWithLeadChange 在同一事务内完成部门更新与负责人交接：
	// 旧负责人降级为 employee，新负责人提升为 dept_lead 并绑定本部门
	UpdateWithLeadChange(ctx context.Context, dept *model.Department, oldLeadID, newLeadID *string) error
}

// departmentRepo DepartmentRepository 的 GORM 实现
type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Preload("Lead").
		Where("department_id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetByName(ctx context.Context, name string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Preload("Lead").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) ListAll(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Preload("Lead").
		Order("name ASC").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) Update(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

func (r *departmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("department_id = ?", id).
		Delete(&model.Department{}).Error
}

func (r *departmentRepo) CountMembers(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("department = ?", name).
		Count(&count).Error
	return count, err
}

func (r *departmentRepo) UpdateWithLeadChange(ctx context.Context, dept *model.Department, oldLeadID, newLeadID *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if oldLeadID != nil && (newLeadID == nil || *oldLeadID != *newLeadID) {
			// 旧负责人降级
			if err := tx.Model(&model.User{}).
				Where("user_id = ?", *oldLeadID).
				Updates(map[string]interface{}{
					"role":    model.RoleEmployee,
					"is_lead": false,
				}).Error; err != nil {
				return err
			}
		}

		if newLeadID != nil {
			// 新负责人提升并绑定本部门
			if err := tx.Model(&model.User{}).
				Where("user_id = ?", *newLeadID).
				Updates(map[string]interface{}{
					"role":       model.RoleDeptLead,
					"is_lead":    true,
					"department": dept.Name,
				}).Error; err != nil {
				return err
			}
		}

		return tx.Save(dept).Error
	})
}
