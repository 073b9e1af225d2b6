package router

import (
	"net/http"
	"time"

	"github.com/carelog/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, sessionSecret string, matchTolerance time.Duration) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("carelog_session", store))

	api := handler.NewAPI(gdb, matchTolerance)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.POST("/api/auth/login", api.Login)
	r.POST("/api/auth/logout", api.Logout)

	// 需要认证的 API 路由
	auth := r.Group("/api")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/auth/me", api.Me)

		auth.GET("/patients", api.ListPatients)
		auth.GET("/patients/:id", api.GetPatient)
		auth.POST("/patients", api.CreatePatient)
		auth.PUT("/patients/:id", api.UpdatePatient)

		auth.GET("/patients/:id/reports/adherence", api.GetAdherenceReport)
		auth.GET("/patients/:id/reports/adherence/export", api.ExportAdherenceReport)

		auth.GET("/medications", api.ListMedications)
		auth.GET("/medications/:id", api.GetMedication)
		auth.POST("/medications", api.CreateMedication)
		auth.PUT("/medications/:id", api.UpdateMedication)
		auth.DELETE("/medications/:id", api.DeleteMedication)

		auth.GET("/schedules", api.ListSchedules)
		auth.GET("/schedules/:id", api.GetSchedule)
		auth.POST("/schedules", api.CreateSchedule)
		auth.PUT("/schedules/:id", api.UpdateSchedule)
		auth.DELETE("/schedules/:id", api.DeleteSchedule)

		auth.GET("/adherence", api.ListAdherenceRecords)
		auth.POST("/adherence", api.CreateAdherenceRecord)

		auth.GET("/checkins", api.ListCheckIns)
		auth.POST("/checkins", api.CreateCheckIn)
		auth.DELETE("/checkins/:id", api.DeleteCheckIn)

		auth.GET("/reminders", api.ListReminders)
		auth.POST("/reminders", api.CreateReminder)
		auth.PUT("/reminders/:id", api.UpdateReminder)
		auth.DELETE("/reminders/:id", api.DeleteReminder)
	}

	return r
}
