package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"eduadmin/internal/config"
	"eduadmin/internal/middleware"
	"eduadmin/internal/session"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Courses   *CourseHandler
	Wizard    *WizardHandler
	Jobs      *JobHandler
	Dashboard *DashboardHandler
	Uploads   *UploadsHandler
}

func NewRouter(cfg config.Config, h Handlers, limiter *middleware.RateLimiter, sessions *session.Store) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if origins := cfg.Origins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", limiter.Limit("login", 5, 1*time.Minute), h.Auth.Login)
			auth.POST("/forgot-password", limiter.Limit("forgot_pass", 1, 5*time.Minute), h.Auth.ForgotPassword)
			auth.POST("/verify-otp", h.Auth.VerifyOTP)
			auth.POST("/reset-password", h.Auth.ResetPassword)
		}

		// Any valid session may read its own state or log out.
		authed := api.Group("")
		authed.Use(middleware.RequireSession(sessions))
		{
			authed.GET("/auth/session", h.Auth.Session)
			authed.POST("/auth/logout", h.Auth.Logout)
		}

		// Everything else on the admin surface is admin-only.
		admin := api.Group("")
		admin.Use(middleware.RequireSession(sessions), middleware.RequireAdmin())
		{
			admin.GET("/dashboard", h.Dashboard.Get)
			admin.GET("/uploads/widget", h.Uploads.Widget)

			courses := admin.Group("/courses")
			{
				courses.GET("", h.Courses.List)
				courses.POST("", h.Courses.Create)
				courses.GET("/:id", h.Courses.GetOne)
				courses.PUT("/:id", h.Courses.Update)
				courses.DELETE("/:id", h.Courses.Delete)
				courses.GET("/:id/modules", h.Courses.Modules)
				courses.GET("/:id/jobs", h.Courses.RelatedJobs)
			}
			admin.GET("/modules/:id", h.Courses.GetModule)
			admin.GET("/modules/:id/lessons", h.Courses.ModuleLessons)
			admin.GET("/lessons/:id", h.Courses.GetLesson)

			wizard := admin.Group("/wizard")
			{
				wizard.POST("", h.Wizard.Start)
				wizard.GET("/:id", h.Wizard.Get)
				wizard.POST("/:id/course", h.Wizard.SubmitCourse)
				wizard.POST("/:id/modules", h.Wizard.AddModule)
				wizard.PUT("/:id/modules/:moduleID", h.Wizard.UpdateModule)
				wizard.DELETE("/:id/modules/:moduleID", h.Wizard.RemoveModule)
				wizard.POST("/:id/advance", h.Wizard.Advance)
				wizard.POST("/:id/lessons", h.Wizard.AddLesson)
				wizard.PUT("/:id/lessons/:lessonID", h.Wizard.UpdateLesson)
				wizard.DELETE("/:id/lessons/:lessonID", h.Wizard.RemoveLesson)
				wizard.GET("/:id/modules/:moduleID/lessons", h.Wizard.ModuleLessons)
				wizard.POST("/:id/finish", h.Wizard.Finish)
			}

			jobs := admin.Group("/jobs")
			{
				jobs.GET("", h.Jobs.List)
				jobs.POST("", h.Jobs.Create)
				jobs.GET("/:id", h.Jobs.GetOne)
				jobs.PUT("/:id", h.Jobs.Update)
				jobs.DELETE("/:id", h.Jobs.Delete)
				jobs.GET("/:id/applications", h.Jobs.Applications)
				jobs.POST("/:id/map-course", h.Jobs.MapCourse)
			}
		}
	}

	// Unmatched paths go home.
	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})

	return r
}
