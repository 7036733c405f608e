package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"crewcal/handlers"
)

// RegisterAvailabilityRoutes registers the worker availability endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.GET("/:subjectID", hb.GetDocumentHandler)
		api.PUT("/:subjectID", hb.SaveDocumentHandler)
		api.DELETE("/:subjectID", hb.DeleteDocumentHandler)
		api.GET("/:subjectID/month/:year/:month", hb.GetMonthHandler)
		api.GET("/:subjectID/day/:date", hb.GetDayHandler)

		api.POST("/:subjectID/toggle-date", hb.ToggleDateHandler)
		api.PUT("/:subjectID/weekday/:weekday", hb.SetWeekdayRuleHandler)
		api.POST("/:subjectID/slots", hb.AddSlotHandler)
		api.DELETE("/:subjectID/slots", hb.RemoveSlotHandler)
		api.POST("/:subjectID/date-range", hb.ApplyDateRangeHandler)
	}
}

// RegisterBusinessHoursRoutes registers account-level default schedules.
func RegisterBusinessHoursRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/business-hours")
	{
		api.GET("/:accountID", hb.GetBusinessHoursHandler)
		api.PUT("/:accountID", hb.SaveBusinessHoursHandler)
		api.DELETE("/:accountID", hb.DeleteBusinessHoursHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm crewcal"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAvailabilityRoutes(r, hb)
	RegisterBusinessHoursRoutes(r, hb)
	RegisterHealthRoute(r)
}
