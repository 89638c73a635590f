package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
)

// EmailTemplateRepository 邮件模板数据访问接口
type EmailTemplateRepository interface {
	Create(ctx context.Context, tpl *model.EmailTemplate) error
	GetByID(ctx context.Context, id string) (*model.EmailTemplate, error)
	GetByName(ctx context.Context, name string) (*model.EmailTemplate, error)
	List(ctx context.Context) ([]model.EmailTemplate, error)
	Update(ctx context.Context, tpl *model.EmailTemplate) error
	Delete(ctx context.Context, id string) error
}

// emailTemplateRepo EmailTemplateRepository 的 GORM 实现
type emailTemplateRepo struct {
	db *gorm.DB
}

// NewEmailTemplateRepo 创建 EmailTemplateRepository 实例
func NewEmailTemplateRepo(db *gorm.DB) EmailTemplateRepository {
	return &emailTemplateRepo{db: db}
}

func (r *emailTemplateRepo) Create(ctx context.Context, tpl *model.EmailTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *emailTemplateRepo) GetByID(ctx context.Context, id string) (*model.EmailTemplate, error) {
	var tpl model.EmailTemplate
	err := r.db.WithContext(ctx).
		Where("template_id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *emailTemplateRepo) GetByName(ctx context.Context, name string) (*model.EmailTemplate, error) {
	var tpl model.EmailTemplate
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *emailTemplateRepo) List(ctx context.Context) ([]model.EmailTemplate, error) {
	var tpls []model.EmailTemplate
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&tpls).Error
	return tpls, err
}

func (r *emailTemplateRepo) Update(ctx context.Context, tpl *model.EmailTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *emailTemplateRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("template_id = ?", id).
		Delete(&model.EmailTemplate{}).Error
}
