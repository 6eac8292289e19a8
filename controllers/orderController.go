package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-storefront-orders/models"
	"go-storefront-orders/services"

	"github.com/gin-gonic/gin"
)

var ledgerService *services.LedgerService
var statusService *services.StatusService

// Init wires the controller package to the service graph built in main.
func Init(ledger *services.LedgerService, status *services.StatusService) {
	ledgerService = ledger
	statusService = status
}

// SubmitOrder is the ledger write endpoint. Storefront checkouts fire one
// request per order and do not await the response, so the body mirrors the
// hosted-script contract: {result, orderId, ledgerName} or {result, error}.
func SubmitOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var req models.OrderRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"result": "error", "error": err.Error()})
			return
		}

		orderId, ledgerName, err := ledgerService.SubmitOrder(ctx, req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidOrder):
				c.JSON(http.StatusBadRequest, gin.H{"result": "error", "error": err.Error()})
			case errors.Is(err, services.ErrLockTimeout):
				c.JSON(http.StatusServiceUnavailable, gin.H{"result": "error", "error": "ledger is busy, please try again"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"result": "error", "error": "order was not created"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"result":     "success",
			"message":    "Order saved successfully",
			"orderId":    orderId,
			"ledgerName": ledgerName,
		})
	}
}

// GetOrders is the ledger read endpoint: ?tenantId=&tenantLabel=.
// A tenant without a ledger gets an empty result, not an error.
func GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		tenantId := c.Query("tenantId")
		tenantLabel := c.Query("tenantLabel")
		if tenantId == "" || tenantLabel == "" {
			c.JSON(http.StatusBadRequest, gin.H{"result": "error", "error": "tenantId and tenantLabel parameters required"})
			return
		}

		orders, stats, ledgerName, err := ledgerService.ReadOrders(ctx, tenantId, tenantLabel)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"result": "error", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"result":     "success",
			"orders":     orders,
			"stats":      stats,
			"ledgerName": ledgerName,
		})
	}
}

// UpdateOrderStatus is the operator's status edit surface and the sole
// trigger of the notification dispatcher. Tenant comes from the token.
func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		tenantId := c.GetString("tenant_id")
		orderId := c.Param("order_id")

		var body struct {
			Status string `json:"status"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := statusService.SetStatus(ctx, tenantId, orderId, body.Status)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnknownStatus):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrLedgerNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "order status update failed"})
			}
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
