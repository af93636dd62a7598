package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tuition-tracker/tracker-service/internal/models"
	"github.com/tuition-tracker/tracker-service/internal/services"
	"github.com/tuition-tracker/tracker-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	studentHandler    *StudentHandler
	homeworkHandler   *HomeworkHandler
	submissionHandler *SubmissionHandler
	attendanceHandler *AttendanceHandler
	exportHandler     *ExportHandler
	dashboardHandler  *DashboardHandler
	authMiddleware    *JWTAuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		studentHandler:    NewStudentHandler(serviceManager.Student(), logger),
		homeworkHandler:   NewHomeworkHandler(serviceManager.Homework(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Grading(), logger),
		attendanceHandler: NewAttendanceHandler(serviceManager.Attendance(), logger),
		exportHandler:     NewExportHandler(serviceManager.Export(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:    NewJWTAuthMiddleware(serviceManager.Auth()),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", hm.authHandler.Login)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/students", hm.studentHandler.ListStudents)
			admin.POST("/students", hm.studentHandler.CreateStudent)
			admin.DELETE("/students/:id", hm.studentHandler.DeleteStudent)
			admin.GET("/students/:id/submissions", hm.studentHandler.ListStudentSubmissions)

			admin.GET("/homework", hm.homeworkHandler.ListHomework)
			admin.POST("/homework", hm.homeworkHandler.AssignHomework)
			admin.GET("/homework/:id/submissions", hm.homeworkHandler.ListHomeworkSubmissions)

			admin.PUT("/submissions/:id", hm.submissionHandler.GradeSubmission)

			admin.GET("/attendance", hm.attendanceHandler.GetAttendance)
			admin.POST("/attendance", hm.attendanceHandler.ReconcileAttendance)

			admin.GET("/exports/leaderboard", hm.exportHandler.ExportLeaderboard)
			admin.GET("/exports/attendance", hm.exportHandler.ExportAttendance)
		}

		// Student routes - Students only
		student := v1.Group("/student")
		student.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
		{
			student.GET("/dashboard", hm.dashboardHandler.GetStudentDashboard)
		}
	}

	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "tuition-tracker",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tuition-tracker",
	})
}
