package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) AddRoutes(e *echo.Echo) {
	AdminRequired := AdminKeyMiddleware(s.Config.AdminKey)

	e.GET("/health", s.handleHealth)
	e.GET("/api/health", s.handleHealth)

	e.POST("/api/email/newsletter", s.handleSendNewsletter(), AdminRequired)
	e.POST("/api/email/custom-email", s.handleSendCustomEmail(), AdminRequired)
	e.POST("/api/email/email-by-package", s.handleSendPackageEmail(), AdminRequired)
	e.GET("/api/email/email-stats", s.handleEmailStats)

	e.POST("/api/subscriptions", s.handleCreateSubscription())
	e.GET("/api/subscriptions", s.handleListSubscriptions, AdminRequired)
	e.GET("/api/subscriptions/:email", s.handleGetSubscription)
	e.PUT("/api/subscriptions/:email", s.handleUpdateSubscription())
	e.DELETE("/api/subscriptions/:email", s.handleDeleteSubscription)
	e.POST("/api/subscriptions/:email/unsubscribe", s.handleUnsubscribe)
	e.POST("/api/subscriptions/:email/resubscribe", s.handleResubscribe)
	e.GET("/api/subscriptions/:email/access", s.handleCheckAccess)

	e.POST("/api/new-joiners", s.handleCreateJoiner())
	e.GET("/api/new-joiners", s.handleListJoiners)
	e.GET("/api/new-joiners/email/:email", s.handleGetJoinerByEmail)
	e.GET("/api/new-joiners/:id", s.handleGetJoiner)
	e.PUT("/api/new-joiners/:id", s.handleUpdateJoiner())
	e.DELETE("/api/new-joiners/:id", s.handleDeleteJoiner)

	e.POST("/api/personal-statements", s.handleSubmitStatement())
	e.GET("/api/personal-statements", s.handleListStatements)
	e.GET("/api/personal-statements/:id", s.handleGetStatement)
	e.PUT("/api/personal-statements/:id", s.handleReviewStatement())
	e.GET("/api/personal-statements/:id/download", s.handleDownloadStatement)
	e.POST("/api/personal-statements/:id/feedback", s.handleUploadFeedback())

	e.POST("/api/webhooks/stripe", s.handleStripeWebhook)

	e.GET("/api/students/:email/dashboard", s.handleStudentDashboard)
	e.GET("/api/students/:email/availability", s.handleGetAvailability)
	e.PUT("/api/students/:email/availability", s.handleSetAvailability())
	e.GET("/api/students/:email/interviews", s.handleStudentInterviews)
	e.GET("/api/students/:email/bookings", s.handleStudentBookings)

	e.GET("/api/tutors/:email/interviews", s.handleTutorInterviews)
	e.PUT("/api/tutors/:email/interviews/:id", s.handleUpdateTutorInterview())
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
