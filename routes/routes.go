package routes

import (
	"net/http"
	"time"

	"glowhub/handlers"
	"glowhub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterResourceRoutes registers slot availability endpoints.
func RegisterResourceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/resources")
	{
		api.GET("/:resourceID/slots", hb.GetAvailableSlots)
	}
}

// RegisterBookingRoutes sets up the endpoints of the booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.POST("/quote", hb.QuoteBooking)
		bookingGroup.POST("/attempts", hb.StartAttempt)
		bookingGroup.GET("/attempts/:id", hb.GetAttempt)
		bookingGroup.DELETE("/attempts/:id", hb.CancelAttempt)
		bookingGroup.GET("/:bookingID", hb.GetBooking)
		bookingGroup.DELETE("/:bookingID", hb.CancelBooking)
	}
}

// RegisterPaymentRoutes registers payment and loyalty endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	payments := r.Group("/api/payments")
	{
		payments.GET("/:txID/status", hb.GetPaymentStatus)
		payments.GET("/:txID/receipt", hb.GetReceipt)
	}
	r.GET("/api/users/:userID/points", hb.GetUserPoints)
}

// RegisterHealthRoute registers the health-check endpoint. It reports the
// last result of the background health monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		state := "ok"
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(code, gin.H{"status": state, "checks": status, "message": "Hi, I'm GlowHub"})
	})
}

// RegisterMetricsRoute exposes the Prometheus registry.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterResourceRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
}
