package api

import (
	"log"
	stdhttp "net/http"

	intconfig "busline/internal/config"
	h "busline/internal/http/handlers"
	"busline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	_ = env

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Catalog and seat availability
		api.GET("/routes", h.ListRoutes)
		api.GET("/trips", h.SearchTrips)
		api.GET("/seats", h.GetSeats)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:ticket", h.GetBooking)
		bookings.GET("/:ticket/pdf", h.GetBookingPDF)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/reset-password", h.ResetPassword)

		// Admin console
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(h.JWTSecret()), middleware.RequireRoles("admin"))
		admin.GET("/bookings", h.SearchBookings)
		admin.PUT("/bookings/:ticket/status", h.SetBookingStatus)
		admin.POST("/routes", h.AddRoute)
		admin.DELETE("/routes", h.DeleteRoute)
		admin.GET("/stats", h.DailyStats)
		admin.GET("/users", h.GetUsers)
	}

	return r
}
