package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lexbook/handlers"
	"lexbook/middleware"
)

// RegisterRoutes wires all endpoint groups onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	registerAuthRoutes(r, hb)
	registerSignupRoutes(r, hb)
	registerProviderRoutes(r, hb)
	registerBookingRoutes(r, hb)
}

func registerAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.Auth.Login)
	}
}

func registerSignupRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/signup")
	{
		api.POST("", hb.Signup.StartSignup)
		api.PATCH("/:sessionID", hb.Signup.UpdateSignup)
		api.POST("/:sessionID/advance", hb.Signup.AdvanceSignup)
		api.POST("/:sessionID/retreat", hb.Signup.RetreatSignup)
		api.POST("/:sessionID/documents", hb.Signup.UploadDocument)
		api.POST("/:sessionID/complete", hb.Signup.CompleteSignup)
	}
}

func registerProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.GET("/search", hb.Provider.SearchProviders)
		api.GET("/:id", hb.Provider.GetProviderByID)
		api.PUT("/:id/schedule", middleware.JWTAuthMiddleware(hb.UserRepo), hb.Provider.PublishSchedule)
	}
}

func registerBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		api.POST("/sessions", hb.Booking.InitiateSession)
		api.POST("/sessions/:sessionID/provider", hb.Booking.SelectProvider)
		api.POST("/sessions/:sessionID/slot", hb.Booking.SelectSlot)
		api.PATCH("/sessions/:sessionID/details", hb.Booking.UpdateDetails)
		api.POST("/sessions/:sessionID/advance", hb.Booking.Advance)
		api.POST("/sessions/:sessionID/retreat", hb.Booking.Retreat)
		api.POST("/sessions/:sessionID/confirm", hb.Booking.ConfirmBooking)
		api.DELETE("/sessions/:sessionID", hb.Booking.CancelSession)

		api.GET("/appointments", hb.Booking.ListMyAppointments)
		api.GET("/appointments/:appointmentID", hb.Booking.GetAppointment)
		api.DELETE("/appointments/:appointmentID", hb.Booking.CancelAppointment)
	}
}
