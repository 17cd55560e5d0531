package seats

import (
	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	seats := rg.Group("/seats")
	{
		// Core seat locking endpoints (booking flow)
		seats.POST("/lock", controller.LockSeats)       // POST /api/v1/seats/lock
		seats.POST("/unlock", controller.UnlockSeats)   // POST /api/v1/seats/unlock
		seats.POST("/refresh", controller.RefreshLocks) // POST /api/v1/seats/refresh

		// Availability
		seats.GET("/available/:showtimeId", controller.GetAvailability) // GET /api/v1/seats/available/:showtimeId
	}
}
