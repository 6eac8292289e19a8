package routes

import (
	"go-storefront-orders/controllers"
	"go-storefront-orders/ws"

	"github.com/gin-gonic/gin"
)

// DashboardRoutes registers the operator-facing routes. Callers attach
// these after the authentication middleware.
func DashboardRoutes(incomingRoutes *gin.Engine, feed *ws.OrderFeedHub) {
	incomingRoutes.GET("/dashboard", controllers.GetDashboard())
	incomingRoutes.PATCH("/orders/:order_id/status", controllers.UpdateOrderStatus())
	incomingRoutes.GET("/ws/orders", feed.HandleWebSocket)
}
