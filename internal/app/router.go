package app

import (
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/monitoring"
)

func (a *App) setupRoutes() {
	a.Router.GET("/metrics", monitoring.PrometheusHandler())

	api := a.Router.Group("/api")
	api.GET("/health", a.controllers.Health.Health)

	// 登录是唯一的匿名业务端点，系统不开放自助注册
	api.POST("/auth/login", a.controllers.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(a.Config, a.repos.User))
	{
		authed.GET("/auth/me", a.controllers.Auth.Me)
		authed.PUT("/auth/password", a.controllers.Auth.ChangePassword)

		// 用户目录对所有登录用户开放，管理操作仅限管理员
		users := authed.Group("/users")
		{
			users.GET("", a.controllers.User.GetUsers)

			adminOnly := middleware.RoleMiddleware(model.Admin)
			users.POST("", adminOnly, a.controllers.User.CreateUser)
			users.GET("/:id", adminOnly, a.controllers.User.GetUser)
			users.PUT("/:id", adminOnly, a.controllers.User.UpdateUser)
			users.DELETE("/:id", adminOnly, a.controllers.User.DeleteUser)
		}

		// 课程
		courses := authed.Group("/courses")
		{
			courses.GET("", a.controllers.Course.GetCourses)
			courses.GET("/:id", a.controllers.Course.GetCourse)
			courses.POST("", middleware.RoleMiddleware(model.Teacher), a.controllers.Course.CreateCourse)
			courses.PUT("/:id", middleware.RoleMiddleware(model.Teacher), a.controllers.Course.UpdateCourse)
			courses.DELETE("/:id", middleware.RoleMiddleware(model.Teacher), a.controllers.Course.DeleteCourse)

			// 选课
			courses.POST("/:id/enroll", a.controllers.Course.Enroll)
			courses.DELETE("/:id/enroll", a.controllers.Course.Unenroll)

			// 名册管理（属主校验在服务层）
			teacherOnly := middleware.RoleMiddleware(model.Teacher)
			courses.GET("/:id/students", teacherOnly, a.controllers.Course.GetStudents)
			courses.DELETE("/:id/students/:userId", teacherOnly, a.controllers.Course.RemoveStudent)
			courses.POST("/:id/students/batch", teacherOnly, a.controllers.Course.BatchEnroll)
			courses.GET("/:id/enrollable-users", teacherOnly, a.controllers.Course.GetEnrollableUsers)
			courses.GET("/:id/analytics", teacherOnly, a.controllers.Course.GetAnalytics)

			// 课时
			courses.GET("/:id/lessons", a.controllers.Lesson.ListLessons)
			courses.POST("/:id/lessons", teacherOnly, a.controllers.Lesson.CreateLesson)
			courses.PUT("/:id/lessons/reorder", teacherOnly, a.controllers.Lesson.ReorderLessons)
		}

		lessons := authed.Group("/lessons")
		{
			lessons.GET("/:id", a.controllers.Lesson.GetLesson)
			lessons.PUT("/:id", middleware.RoleMiddleware(model.Teacher), a.controllers.Lesson.UpdateLesson)
			lessons.DELETE("/:id", middleware.RoleMiddleware(model.Teacher), a.controllers.Lesson.DeleteLesson)
		}

		// 学习进度
		progress := authed.Group("/progress")
		{
			progress.GET("", a.controllers.Progress.GetOverview)
			progress.PUT("/lessons/:id", a.controllers.Progress.UpdateProgress)
			progress.GET("/portfolio", a.controllers.Progress.GetPortfolio)
		}

		// 证书
		certificates := authed.Group("/certificates")
		{
			certificates.GET("", a.controllers.Certificate.ListMine)
			certificates.GET("/:id", a.controllers.Certificate.GetCertificate)
			certificates.GET("/:id/pdf", a.controllers.Certificate.Download)
		}

		// AI 学习助手
		chat := authed.Group("/chat")
		{
			chat.POST("/message", a.controllers.Chat.SendMessage)
			chat.GET("/history", a.controllers.Chat.GetHistory)
			chat.GET("/recent", a.controllers.Chat.GetRecent)
			chat.GET("/recommendations", a.controllers.Chat.GetRecommendations)
			chat.POST("/resume", a.controllers.Chat.Resume)
			chat.DELETE("/messages/:id", a.controllers.Chat.DeleteMessage)
		}

		// 上传：头像对所有登录用户开放，课程/课时素材限教师与管理员
		upload := authed.Group("/upload")
		{
			teacherOnly := middleware.RoleMiddleware(model.Teacher)
			upload.POST("/avatar", a.controllers.Upload.UploadAvatar)
			upload.POST("/course-image", teacherOnly, a.controllers.Upload.UploadCourseImage)
			upload.POST("/lesson-file", teacherOnly, a.controllers.Upload.UploadLessonFile)
			upload.DELETE("/:filename", teacherOnly, a.controllers.Upload.DeleteFile)
		}
	}
}
