package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/aerolinkhq/aerolink-api/internal/middleware"
	"github.com/aerolinkhq/aerolink-api/internal/models"
	"github.com/aerolinkhq/aerolink-api/internal/service"
)

// Router bundles the HTTP handlers and the auth service used by the gate
// middleware.
type Router struct {
	Auth        *AuthHandler
	Airports    *AirportHandler
	Aircraft    *AircraftHandler
	Flights     *FlightHandler
	Crew        *CrewHandler
	Passengers  *PassengerHandler
	Admins      *AdminHandler
	Assignments *AssignmentHandler
	Bookings    *BookingHandler
	Exports     *ExportHandler

	AuthService *service.AuthService
	Registry    *prometheus.Registry
	EnableDocs  bool
}

// Register wires all routes onto the engine under the given API prefix.
func (r *Router) Register(engine *gin.Engine, prefix string) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})))
	if r.EnableDocs {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group(prefix)

	requireAuth := middleware.JWT(r.AuthService)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Public surface.
	auth := api.Group("/auth")
	{
		auth.POST("/login", r.Auth.Login)
		auth.POST("/signup", r.Auth.Signup)
		auth.POST("/refresh", r.Auth.Refresh)
		auth.POST("/logout", requireAuth, r.Auth.Logout)
		auth.GET("/me", requireAuth, r.Auth.Me)
		auth.POST("/password", requireAuth, r.Auth.ChangePassword)
	}

	api.GET("/flights", r.Flights.List)
	api.GET("/flights/search", r.Flights.List)
	api.GET("/flights/:id", r.Flights.Get)
	api.GET("/airports", r.Airports.List)
	api.GET("/airports/:id", r.Airports.Get)
	api.GET("/exports/download", r.Exports.Download)

	// Flight administration.
	flights := api.Group("/flights", requireAuth, adminOnly)
	{
		flights.POST("", r.Flights.Create)
		flights.PUT("/:id", r.Flights.Update)
		flights.DELETE("/:id", r.Flights.Delete)
		flights.POST("/:id/image", r.Flights.UploadImage)
		flights.POST("/:id/manifest", r.Exports.Enqueue)
	}

	airports := api.Group("/airports", requireAuth, adminOnly)
	{
		airports.POST("", r.Airports.Create)
		airports.PUT("/:id", r.Airports.Update)
		airports.DELETE("/:id", r.Airports.Delete)
	}

	aircraft := api.Group("/aircraft", requireAuth, adminOnly)
	{
		aircraft.GET("", r.Aircraft.List)
		aircraft.GET("/:id", r.Aircraft.Get)
		aircraft.POST("", r.Aircraft.Create)
		aircraft.PUT("/:id", r.Aircraft.Update)
		aircraft.DELETE("/:id", r.Aircraft.Delete)
	}

	crew := api.Group("/crew", requireAuth)
	{
		crew.GET("/profile", middleware.RequireRoles(models.RoleCrew), r.Crew.Profile)
		crew.GET("", adminOnly, r.Crew.List)
		crew.GET("/:id", adminOnly, r.Crew.Get)
		crew.POST("", adminOnly, r.Crew.Create)
		crew.PUT("/:id", adminOnly, r.Crew.Update)
		crew.DELETE("/:id", adminOnly, r.Crew.Delete)
	}

	passengers := api.Group("/passengers", requireAuth, adminOnly)
	{
		passengers.GET("", r.Passengers.List)
		passengers.GET("/:id", r.Passengers.Get)
		passengers.POST("", r.Passengers.Create)
		passengers.PUT("/:id", r.Passengers.Update)
		passengers.DELETE("/:id", r.Passengers.Delete)
	}

	admins := api.Group("/admins", requireAuth, adminOnly)
	{
		admins.GET("", r.Admins.List)
		admins.GET("/:id", r.Admins.Get)
		admins.POST("", r.Admins.Create)
		admins.PUT("/:id", r.Admins.Update)
		admins.DELETE("/:id", r.Admins.Delete)
	}
	api.GET("/users", requireAuth, adminOnly, r.Admins.ListUsers)

	assignments := api.Group("/assignments", requireAuth, adminOnly)
	{
		assignments.GET("", r.Assignments.List)
		assignments.GET("/:id", r.Assignments.Get)
		assignments.POST("", r.Assignments.Create)
		assignments.PUT("/:id", r.Assignments.Update)
		assignments.DELETE("/:id", r.Assignments.Delete)
	}

	bookings := api.Group("/bookings", requireAuth)
	{
		bookings.GET("", adminOnly, r.Bookings.List)
		bookings.GET("/mine", middleware.RequireRoles(models.RolePassenger), r.Bookings.Mine)
		bookings.GET("/:id", r.Bookings.Get)
		bookings.POST("", middleware.RequireRoles(models.RolePassenger, models.RoleAdmin), r.Bookings.Create)
		bookings.DELETE("/:id", middleware.RequireRoles(models.RolePassenger, models.RoleAdmin), r.Bookings.Delete)
	}

	api.GET("/exports/:id", requireAuth, adminOnly, r.Exports.Status)
}
