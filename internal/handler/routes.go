package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-api/internal/middleware"
	"github.com/learnhub/lms-api/internal/models"
	"github.com/learnhub/lms-api/internal/service"
)

// RegisterRoutes mounts the API surface on the given router group.
// Everything except register and login sits behind the authentication
// middleware, which also enforces the account approval gate; the role
// groups add RBAC on top.
func RegisterRoutes(api *gin.RouterGroup, authService *service.AuthService, authHandler *AuthHandler, adminHandler *AdminHandler, teacherHandler *TeacherHandler, studentHandler *StudentHandler) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		authed := auth.Group("")
		authed.Use(middleware.Authenticate(authService))
		authed.GET("/me", authHandler.Me)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.Authenticate(authService), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/stats", adminHandler.Dashboard)
		admin.GET("/teachers", adminHandler.ListTeachers)
		admin.GET("/teachers/:id/details", adminHandler.GetTeacher)
		admin.PATCH("/teachers/:id/status", adminHandler.DecideTeacher)
		admin.GET("/courses", adminHandler.ListCourses)
		admin.GET("/courses/export", adminHandler.ExportCatalog)
		admin.PATCH("/courses/:id/status", adminHandler.DecideCourse)
		admin.GET("/reviews", adminHandler.ListReviews)
		admin.PATCH("/reviews/:id/status", adminHandler.DecideReview)
		admin.GET("/students", adminHandler.ListStudents)
		admin.GET("/students/:id/details", adminHandler.GetStudent)
	}

	teacher := api.Group("/teacher")
	teacher.Use(middleware.Authenticate(authService), middleware.RequireRoles(models.RoleTeacher))
	{
		teacher.GET("/profile", authHandler.Me)
		teacher.PATCH("/profile", authHandler.UpdateProfile)
		teacher.GET("/stats", teacherHandler.Dashboard)
		teacher.POST("/courses", teacherHandler.CreateCourse)
		teacher.GET("/courses", teacherHandler.ListCourses)
		teacher.GET("/courses/:id", teacherHandler.GetCourse)
		teacher.PATCH("/courses/:id", teacherHandler.UpdateCourse)
	}

	student := api.Group("/student")
	student.Use(middleware.Authenticate(authService), middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/profile", authHandler.Me)
		student.PATCH("/profile", authHandler.UpdateProfile)
		student.GET("/courses", studentHandler.BrowseCourses)
		student.GET("/courses/:id", studentHandler.GetCourse)
		student.POST("/courses/:id/enroll", studentHandler.Enroll)
		student.PATCH("/courses/:id/progress", studentHandler.UpdateProgress)
		student.POST("/courses/:id/reviews", studentHandler.SubmitReview)
		student.GET("/enrollments", studentHandler.ListEnrollments)
		student.GET("/reviews", studentHandler.ListReviews)
	}
}
