package http

import (
	"net/http"

	"github.com/yehezkielwinatali/Angelomotive/internal/config"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	userService *services.UserService,
	carHandler *CarHandler,
	bookingHandler *BookingHandler,
	dealershipHandler *DealershipHandler,
	userHandler *UserHandler,
	visionHandler *VisionHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	optionalAuth := OptionalAuthMiddleware(tokenService, userService)
	auth := AuthMiddleware(tokenService, userService)

	// Storefront routes. Listing endpoints are public but annotate wishlist
	// state when a valid token is sent.
	cars := router.Group("/cars")
	cars.Use(optionalAuth)
	{
		cars.GET("", carHandler.GetCars)
		cars.GET("/filters", carHandler.GetCarFilters)
		cars.GET("/featured", carHandler.GetFeaturedCars)
		cars.GET("/saved", carHandler.GetSavedCars)
		cars.GET("/:id", carHandler.GetCar)
		cars.GET("/:id/availability", bookingHandler.GetAvailability)
		cars.POST("/:id/wishlist", carHandler.ToggleWishlist)
	}

	router.GET("/dealership", dealershipHandler.GetDealership)
	router.POST("/loan/estimate", carHandler.EstimateLoan)
	router.POST("/search/image", optionalAuth, visionHandler.SearchByImage)
	router.GET("/users/me", auth, userHandler.GetMe)

	// Test drive routes
	testDrives := router.Group("/test-drives")
	testDrives.Use(auth)
	{
		testDrives.POST("", bookingHandler.BookTestDrive)
		testDrives.GET("/my", bookingHandler.GetMyTestDrives)
		testDrives.POST("/:id/cancel", bookingHandler.CancelTestDrive)
	}

	// Back-office routes
	admin := router.Group("/admin")
	admin.Use(auth, AdminMiddleware())
	{
		admin.GET("/cars", carHandler.AdminListCars)
		admin.POST("/cars", carHandler.AdminCreateCar)
		admin.POST("/cars/ai-scan", visionHandler.ScanCarImage)
		admin.PATCH("/cars/:id/status", carHandler.AdminUpdateCarStatus)
		admin.DELETE("/cars/:id", carHandler.AdminDeleteCar)

		admin.GET("/test-drives", bookingHandler.AdminListBookings)
		admin.PATCH("/test-drives/:id/status", bookingHandler.AdminUpdateBookingStatus)

		admin.GET("/dashboard", bookingHandler.AdminDashboard)

		admin.GET("/settings/dealership", dealershipHandler.GetDealership)
		admin.PUT("/settings/working-hours", dealershipHandler.SaveWorkingHours)
		admin.GET("/settings/users", userHandler.AdminListUsers)
		admin.PATCH("/settings/users/:id/role", userHandler.AdminUpdateUserRole)
	}

	return &Router{router: router}, nil
}

func (r *Router) Serve(addr string) error {
	return r.router.Run(addr)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
