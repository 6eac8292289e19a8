package routes

import (
	"go-storefront-orders/controllers"

	"github.com/gin-gonic/gin"
)

// OrderRoutes registers the public ledger endpoints.
func OrderRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/orders", controllers.SubmitOrder())
	incomingRoutes.GET("/orders", controllers.GetOrders())
	incomingRoutes.POST("/tenants/token", controllers.GenerateToken())
}
