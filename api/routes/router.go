// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"cinebook/internal/auth"
	"cinebook/internal/bookings"
	"cinebook/internal/movies"
	"cinebook/internal/notifications"
	"cinebook/internal/offers"
	"cinebook/internal/payments"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher

	// services shared across route groups
	movieRepo    movies.Repository
	bookingRepo  bookings.Repository
	seatService  seats.Service
	offerService offers.Service
}

// NewRouter creates a new router instance. publisher may be nil when the
// notification pipeline is down; confirmations are then skipped.
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupCatalogRoutes(api)
		r.setupOfferRoutes(api)
		r.setupSeatRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinebook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinebook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures admin authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authService := auth.NewService(r.config)
	authController := auth.NewController(authService)
	auth.SetupAuthRoutes(rg, authController)
}

// setupCatalogRoutes configures movie and showtime routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	r.movieRepo = movies.NewRepository(r.db.GetPostgreSQL())

	var cacheService cache.Service
	if r.db.Redis != nil {
		cacheService = cache.NewService(r.db.GetRedisClient())
	}

	movieService := movies.NewService(r.movieRepo, cacheService)
	movieController := movies.NewController(movieService)

	movies.SetupMovieRoutes(rg, movieController)
	movies.SetupAdminMovieRoutes(rg, movieController)
}

// setupOfferRoutes configures promotional offer routes
func (r *Router) setupOfferRoutes(rg *gin.RouterGroup) {
	offerRepo := offers.NewRepository(r.db.GetPostgreSQL())
	r.offerService = offers.NewService(offerRepo)
	offerController := offers.NewController(r.offerService)

	offers.SetupOfferRoutes(rg, offerController)
	offers.SetupAdminOfferRoutes(rg, offerController)
}

// setupSeatRoutes configures seat locking routes. The booking repository
// doubles as the paid-seat source so availability merges locks with sales.
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	r.bookingRepo = bookings.NewRepository(r.db.GetPostgreSQL())

	lockStore := seats.NewRedisLockStore(r.db.GetRedisClient())
	r.seatService = seats.NewService(lockStore, r.bookingRepo, r.config)
	seatController := seats.NewController(r.seatService)

	seats.SetupSeatRoutes(rg, seatController)
}

// setupBookingRoutes configures the payment and confirmation flow
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	authority := payments.NewStripeAuthority(r.config)
	showtimeSource := movies.NewShowtimeSource(r.movieRepo)

	bookingService := bookings.NewService(
		r.bookingRepo,
		r.seatService,
		authority,
		r.offerService,
		showtimeSource,
		r.publisher,
	)
	bookingController := bookings.NewController(bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}
