package middleware

import (
	"fmt"
	"net/http"

	"go-storefront-orders/helpers"

	"github.com/gin-gonic/gin"
)

// Authentication gates the operator-facing routes (dashboard, status edits,
// live feed) behind a tenant token. The storefront write endpoint stays
// public, like the hosted ledger script it replaces.
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientToken := c.Request.Header.Get("token")
		if clientToken == "" {
			// websocket clients cannot set headers from the browser
			clientToken = c.Query("token")
		}
		if clientToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": fmt.Sprintf("no token provided")})
			c.Abort()
			return
		}
		claims, msg := helpers.ValidateToken(clientToken)
		if msg != "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}
		c.Set("tenant_id", claims.Tenant_id)
		c.Set("tenant_label", claims.Tenant_label)
		c.Next()
	}
}
