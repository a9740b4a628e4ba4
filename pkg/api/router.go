package api

import (
	"github.com/labstack/echo/v4"
	"github.com/lendhub/leaddesk/pkg/api/handlers"
)

// Handlers are the endpoint groups mounted by RegisterRoutes
type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Application *handlers.ApplicationHandler
	Lead        *handlers.LeadHandler
	Appointment *handlers.AppointmentHandler
	CRM         *handlers.CRMHandler
	Export      *handlers.ExportHandler
	Analytics   *handlers.AnalyticsHandler
	Metrics     echo.HandlerFunc // nil disables /metrics
}

// Guards are the middleware separating public, authenticated and admin
// routes
type Guards struct {
	Authenticate echo.MiddlewareFunc
	RequireAdmin echo.MiddlewareFunc
	IntakeLimit  echo.MiddlewareFunc // nil disables rate limiting
}

// RegisterRoutes mounts the HTTP surface on e
func RegisterRoutes(e *echo.Echo, h Handlers, g Guards) {
	e.GET("/health", h.Health.Check)
	if h.Metrics != nil {
		e.GET("/metrics", h.Metrics)
	}

	v1 := e.Group("/api/v1")

	// Public intake form
	var intake []echo.MiddlewareFunc
	if g.IntakeLimit != nil {
		intake = append(intake, g.IntakeLimit)
	}
	v1.POST("/applications", h.Application.Submit, intake...)

	// Any signed-in staff member
	authGroup := v1.Group("/auth", g.Authenticate)
	{
		authGroup.GET("/me", h.Auth.Me)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// Dashboard (admin only)
	leadsGroup := v1.Group("/leads", g.Authenticate, g.RequireAdmin)
	{
		leadsGroup.GET("", h.Lead.List)
		leadsGroup.GET("/export", h.Export.Leads)
		leadsGroup.GET("/:id", h.Lead.Get)
		leadsGroup.PATCH("/:id/status", h.Lead.UpdateStatus)
		leadsGroup.POST("/:id/follow-up", h.Lead.FollowUp)
		leadsGroup.POST("/:id/appointments", h.Appointment.Book)
		leadsGroup.POST("/:id/crm-sync", h.CRM.Sync)
	}

	// Analytics (admin only)
	analyticsGroup := v1.Group("/analytics", g.Authenticate, g.RequireAdmin)
	{
		analyticsGroup.GET("", h.Analytics.Summary)
		analyticsGroup.GET("/report", h.Export.Report)
	}
}
