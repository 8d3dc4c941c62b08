package routes

import (
	"time"

	"keyscal/handlers"
	"keyscal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers roster endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.GET("", hb.GetRosterHandler)
	}
}

// RegisterCalendarRoutes registers the week view, rollover, toggles and slot CRUD.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	api.Use(middleware.SessionMiddleware(hb.Roster))
	{
		api.GET("/week", hb.GetWeekHandler)
		api.GET("/ics", hb.GetICSHandler)
		api.POST("/rollover", hb.RolloverHandler)
		api.POST("/toggle", hb.ToggleCellHandler)
		api.POST("/toggle-day", hb.ToggleDayHandler)

		api.GET("/:date", hb.GetTimeSlotsByDateHandler)
		api.POST("", hb.CreateTimeSlotHandler)
		api.PUT("/:id", hb.UpdateTimeSlotHandler)
		api.DELETE("/:id", hb.DeleteTimeSlotHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.SessionHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
}
