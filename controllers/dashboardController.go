package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"go-storefront-orders/helpers"
	"go-storefront-orders/services"

	"github.com/gin-gonic/gin"
)

// GenerateToken mints a tenant dashboard token. Gated by the platform
// admin key; tenant identity itself is owned by the excluded auth service.
func GenerateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Tenant_id    string `json:"tenantId" binding:"required"`
			Tenant_label string `json:"tenantLabel" binding:"required"`
			Admin_key    string `json:"adminKey" binding:"required"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body.Admin_key != os.Getenv("ADMIN_KEY") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
			return
		}

		token, err := helpers.GenerateTenantToken(body.Tenant_id, body.Tenant_label)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token was not generated"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// GetDashboard returns the authenticated tenant's ledger, stats projection
// and top products in one shot.
func GetDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		tenantId := c.GetString("tenant_id")
		tenantLabel := c.GetString("tenant_label")

		orders, stats, ledgerName, err := ledgerService.ReadOrders(ctx, tenantId, tenantLabel)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"result": "error", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"result":      "success",
			"orders":      orders,
			"stats":       stats,
			"topProducts": services.TopProducts(orders, 5),
			"ledgerName":  ledgerName,
		})
	}
}
