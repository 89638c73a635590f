package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/repository"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/mailer"
)

var (
	ErrTemplateNotFound = errors.New("邮件模板不存在")
	ErrTemplateExists   = errors.New("模板名称已存在")
)

// EmailTemplateService 邮件模板服务接口（管理员）
type EmailTemplateService interface {
	List(ctx context.Context) ([]dto.EmailTemplateResponse, error)
	Create(ctx context.Context, req *dto.CreateEmailTemplateRequest) (*dto.EmailTemplateResponse, error)
	Get(ctx context.Context, id string) (*dto.EmailTemplateResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmailTemplateRequest) (*dto.EmailTemplateResponse, error)
	Delete(ctx context.Context, id string) error
	// Preview 变量替换后的主题与正文，不发送
	Preview(ctx context.Context, id string, req *dto.PreviewEmailTemplateRequest) (*dto.PreviewEmailTemplateResponse, error)
	// TestSend 按当前 SMTP 配置向指定邮箱试发
	TestSend(ctx context.Context, id string, req *dto.TestSendEmailRequest) error
}

// emailTemplateService 邮件模板服务实现
type emailTemplateService struct {
	repo   *repository.Repository
	mailer mailer.Mailer
	logger *zap.Logger
}

// NewEmailTemplateService 创建邮件模板服务实例
func NewEmailTemplateService(repo *repository.Repository, m mailer.Mailer, logger *zap.Logger) EmailTemplateService {
	return &emailTemplateService{repo: repo, mailer: m, logger: logger}
}

func (s *emailTemplateService) List(ctx context.Context) ([]dto.EmailTemplateResponse, error) {
	tpls, err := s.repo.EmailTemplate.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EmailTemplateResponse, 0, len(tpls))
	for i := range tpls {
		items = append(items, *toTemplateResponse(&tpls[i]))
	}
	return items, nil
}

func (s *emailTemplateService) Create(ctx context.Context, req *dto.CreateEmailTemplateRequest) (*dto.EmailTemplateResponse, error) {
	if _, err := s.repo.EmailTemplate.GetByName(ctx, req.Name); err == nil {
		return nil, ErrTemplateExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tpl := &model.EmailTemplate{
		Name:     req.Name,
		Subject:  req.Subject,
		BodyHTML: req.BodyHTML,
		IsActive: true,
	}
	if err := s.repo.EmailTemplate.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return toTemplateResponse(tpl), nil
}

func (s *emailTemplateService) Get(ctx context.Context, id string) (*dto.EmailTemplateResponse, error) {
	tpl, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTemplateResponse(tpl), nil
}

func (s *emailTemplateService) Update(ctx context.Context, id string, req *dto.UpdateEmailTemplateRequest) (*dto.EmailTemplateResponse, error) {
	tpl, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Subject != nil {
		tpl.Subject = *req.Subject
	}
	if req.BodyHTML != nil {
		tpl.BodyHTML = *req.BodyHTML
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := s.repo.EmailTemplate.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return toTemplateResponse(tpl), nil
}

func (s *emailTemplateService) Delete(ctx context.Context, id string) error {
	if _, err := s.getTemplate(ctx, id); err != nil {
		return err
	}
	return s.repo.EmailTemplate.Delete(ctx, id)
}

func (s *emailTemplateService) Preview(ctx context.Context, id string, req *dto.PreviewEmailTemplateRequest) (*dto.PreviewEmailTemplateResponse, error) {
	tpl, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.PreviewEmailTemplateResponse{
		Subject:  renderTemplate(tpl.Subject, req.Variables),
		BodyHTML: renderTemplate(tpl.BodyHTML, req.Variables),
	}, nil
}

func (s *emailTemplateService) TestSend(ctx context.Context, id string, req *dto.TestSendEmailRequest) error {
	tpl, err := s.getTemplate(ctx, id)
	if err != nil {
		return err
	}

	subject := renderTemplate(tpl.Subject, req.Variables)
	body := renderTemplate(tpl.BodyHTML, req.Variables)

	return s.mailer.Send(ctx, req.To, subject, body)
}

func (s *emailTemplateService) getTemplate(ctx context.Context, id string) (*model.EmailTemplate, error) {
	tpl, err := s.repo.EmailTemplate.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

// renderTemplate 替换 {{变量}} 占位符，未提供的变量原样保留
func renderTemplate(text string, vars map[string]string) string {
	for key, value := range vars {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return text
}

func toTemplateResponse(tpl *model.EmailTemplate) *dto.EmailTemplateResponse {
	return &dto.EmailTemplateResponse{
		ID:        tpl.TemplateID,
		Name:      tpl.Name,
		Subject:   tpl.Subject,
		BodyHTML:  tpl.BodyHTML,
		IsActive:  tpl.IsActive,
		UpdatedAt: tpl.UpdatedAt.Format(timeLayout),
	}
}
