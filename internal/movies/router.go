package movies

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupMovieRoutes registers the public catalog endpoints
func SetupMovieRoutes(rg *gin.RouterGroup, controller *Controller) {
	movies := rg.Group("/movies")
	{
		movies.GET("", controller.ListMovies)
		movies.GET("/:id", controller.GetMovie)
		movies.GET("/:id/showtimes", controller.ListShowtimes)
	}

	rg.GET("/showtimes/:id", controller.GetShowtime)
}

// SetupAdminMovieRoutes registers the JWT-guarded admin endpoints
func SetupAdminMovieRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/movies", controller.CreateMovie)
		admin.PUT("/movies/:id", controller.UpdateMovie)
		admin.DELETE("/movies/:id", controller.DeleteMovie)
		admin.POST("/showtimes", controller.CreateShowtime)
		admin.DELETE("/showtimes/:id", controller.DeleteShowtime)
	}
}
