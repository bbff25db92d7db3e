package app

import (
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/health", c.health.Health)
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")

	// Public
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/login", c.auth.Login)
		auth.POST("/forgot-password", c.auth.ForgotPassword)
		auth.POST("/reset-password/:token", c.auth.ResetPassword)
	}

	// Authenticated
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.GET("/auth/profile", c.auth.Profile)
		authed.PUT("/auth/profile", c.auth.UpdateProfile)
		authed.POST("/auth/logout", c.auth.Logout)

		authed.POST("/upload", c.upload.Upload)

		tasks := authed.Group("/tasks")
		{
			tasks.GET("", c.task.ListTasks)
			tasks.GET("/kind/:kind", c.task.ListTasksByKind)
			tasks.GET("/user-dashboard-data", c.task.UserDashboard)
			tasks.GET("/:id", c.task.GetTask)
			tasks.PUT("/:id/status", c.task.UpdateTaskStatus)
			tasks.PUT("/:id/todo", c.task.UpdateTaskChecklist)

			tasks.POST("/:id/submissions", c.submission.Submit)
			tasks.GET("/:id/submissions/me", c.submission.MySubmission)
		}

		mindmaps := authed.Group("/mindmaps")
		{
			mindmaps.GET("", c.mindmap.ListTasks)
			mindmaps.GET("/:id", c.mindmap.GetTask)
			mindmaps.PUT("/:id/status", c.mindmap.UpdateStatus)
			mindmaps.POST("/:id/submissions", c.mindmap.Submit)
			mindmaps.GET("/:id/submissions/me", c.mindmap.MySubmission)
		}

		content := authed.Group("/content")
		{
			content.GET("/type/:type", c.content.ListContent)
			content.GET("/:id", c.content.GetContent)
		}

		surveys := authed.Group("/surveys")
		{
			surveys.POST("", c.survey.CreateSurvey)
			surveys.GET("", c.survey.ListSurveys)
		}

		groups := authed.Group("/groups")
		{
			groups.GET("", c.group.ListGroups)
			groups.GET("/:id", c.group.GetGroup)
			groups.GET("/:id/messages", c.group.Messages)
			groups.GET("/:id/ws", c.group.Chat)
		}
	}

	// Admin only
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListMembers)
		admin.GET("/users/:userId", c.user.GetUser)
		admin.PUT("/users/:userId", c.user.UpdateUser)
		admin.DELETE("/users/:userId", c.user.DeleteUser)
		admin.GET("/users/:userId/submissions", c.submission.ListByUser)
		admin.GET("/users/:userId/surveys", c.survey.ListUserSurveys)

		admin.POST("/tasks", c.task.CreateTask)
		admin.PUT("/tasks-admin/:id", c.task.UpdateTask)
		admin.DELETE("/tasks-admin/:id", c.task.DeleteTask)
		admin.GET("/tasks-admin/dashboard-data", c.task.Dashboard)
		admin.GET("/tasks-admin/:id/submissions", c.submission.ListByTask)
		admin.PUT("/submissions/:id/grade", c.submission.Grade)

		admin.POST("/mindmaps", c.mindmap.CreateTask)
		admin.PUT("/mindmaps-admin/:id", c.mindmap.UpdateTask)
		admin.DELETE("/mindmaps-admin/:id", c.mindmap.DeleteTask)
		admin.GET("/mindmaps-admin/:id/submissions", c.mindmap.ListSubmissions)
		admin.PUT("/mindmaps-admin/submissions/:id/grade", c.mindmap.GradeSubmission)

		admin.POST("/content", c.content.CreateContent)
		admin.PUT("/content-admin/:id", c.content.UpdateContent)
		admin.PUT("/content-admin/:id/status", c.content.UpdateContentStatus)
		admin.DELETE("/content-admin/:id/files", c.content.RemoveFile)
		admin.DELETE("/content-admin/:id", c.content.DeleteContent)

		admin.PUT("/surveys/:id", c.survey.UpdateSurvey)
		admin.DELETE("/surveys/:id", c.survey.DeleteSurvey)

		admin.PUT("/groups/:id", c.group.UpdateGroup)
		admin.DELETE("/groups/:id", c.group.DeleteGroup)

		admin.GET("/eportfolio/:userId", c.portfolio.Data)
		admin.GET("/eportfolio/:userId/download", c.portfolio.Download)
	}
}
