package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ayoantar/HOL-ticket-system-sub001/internal/service"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 11001, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 11001, "未认证")
		return "", false
	}
	return s, true
}

// MustGetActor 从 Gin 上下文还原操作者（user_id + role + department）
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Actor{}, false
	}

	role, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 11001, "未认证")
		return service.Actor{}, false
	}
	roleStr, ok := role.(string)
	if !ok || roleStr == "" {
		response.Unauthorized(c, 11001, "未认证")
		return service.Actor{}, false
	}

	// department 允许为空（客户与未分配部门的员工）
	return service.Actor{
		UserID:     userID,
		Role:       roleStr,
		Department: c.GetString("department"),
	}, true
}
