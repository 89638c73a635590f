package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/config"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/dto"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/repository"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/mailer"
)

var ErrInvalidSettingCategory = errors.New("未知设置分类")

// defaultSettings 各分类内置默认值，读取时补齐未落库的项
var defaultSettings = map[string]map[string]string{
	model.SettingSystem: {
		"site_name":        "HOL 服务台",
		"default_language": "zh-CN",
		"timezone":         "UTC",
	},
	model.SettingNotification: {
		"email_on_create":        "true",
		"email_on_status_change": "true",
		"inapp_enabled":          "true",
	},
	model.SettingSecurity: {
		"session_hours":      "720",
		"max_login_attempts": "5",
	},
	model.SettingMaintenance: {
		"maintenance_mode": "false",
		"banner_message":   "",
	},
}

// SettingsService 系统设置服务接口
// 同时作为邮件配置提供者（settings 表 email 分类优先，环境配置兜底）
type SettingsService interface {
	mailer.ConfigSource
	GetCategory(ctx context.Context, category string) (*dto.SettingsResponse, error)
	UpdateCategory(ctx context.Context, actorID, category string, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

// settingsService 系统设置服务实现
type settingsService struct {
	repo    *repository.Repository
	mailCfg *config.MailConfig
	logger  *zap.Logger
}

// NewSettingsService 创建系统设置服务实例
func NewSettingsService(repo *repository.Repository, mailCfg *config.MailConfig, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, mailCfg: mailCfg, logger: logger}
}

func (s *settingsService) GetCategory(ctx context.Context, category string) (*dto.SettingsResponse, error) {
	if !model.ValidSettingCategory(category) {
		return nil, ErrInvalidSettingCategory
	}

	stored, err := s.repo.Setting.GetCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for k, v := range defaultSettings[category] {
		values[k] = v
	}
	for k, v := range stored {
		values[k] = v
	}

	return &dto.SettingsResponse{Category: category, Settings: values}, nil
}

func (s *settingsService) UpdateCategory(ctx context.Context, actorID, category string, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	if !model.ValidSettingCategory(category) {
		return nil, ErrInvalidSettingCategory
	}

	for key, value := range req.Settings {
		setting := &model.Setting{
			Category:  category,
			Key:       key,
			Value:     value,
			UpdatedBy: &actorID,
		}
		if err := s.repo.Setting.Upsert(ctx, setting); err != nil {
			return nil, err
		}
	}

	s.logger.Info("更新系统设置",
		zap.String("category", category),
		zap.Int("keys", len(req.Settings)),
		zap.String("updated_by", actorID),
	)

	return s.GetCategory(ctx, category)
}

// SMTPConfig 解析 SMTP 配置：settings 表 email 分类优先，环境配置兜底
// 读库失败时直接回退环境配置，不阻断发信
func (s *settingsService) SMTPConfig(ctx context.Context) mailer.SMTPConfig {
	cfg := mailer.SMTPConfig{
		Host:     s.mailCfg.SMTPHost,
		Port:     s.mailCfg.SMTPPort,
		Username: s.mailCfg.Username,
		Password: s.mailCfg.Password,
		From:     s.mailCfg.From,
		Enabled:  s.mailCfg.Enabled,
	}

	stored, err := s.repo.Setting.GetCategory(ctx, model.SettingEmail)
	if err != nil {
		s.logger.Warn("读取邮件设置失败，使用环境配置", zap.Error(err))
		return cfg
	}

	if v, ok := stored["smtp_host"]; ok && v != "" {
		cfg.Host = v
	}
	if v, ok := stored["smtp_port"]; ok {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Port = port
		}
	}
	if v, ok := stored["username"]; ok && v != "" {
		cfg.Username = v
	}
	if v, ok := stored["password"]; ok && v != "" {
		cfg.Password = v
	}
	if v, ok := stored["from"]; ok && v != "" {
		cfg.From = v
	}
	if v, ok := stored["enabled"]; ok {
		cfg.Enabled = v == "true"
	}

	return cfg
}
