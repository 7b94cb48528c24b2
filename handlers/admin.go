package handlers

import (
	"encoding/json"
	"net/http"

	"canteen-api/config"
	"canteen-api/inventory"
	"canteen-api/models"

	"github.com/gin-gonic/gin"
)

// AdminGetAllOrders returns every order in the system, newest first
func AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Order("created_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	query.Find(&orders)

	// Admin dashboard: aggregate by status
	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusCompleted && o.PaymentStatus == models.PaymentPaid {
			totalRevenue += o.Total
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

type EditOrderRequest struct {
	Fullname *string             `json:"fullname"`
	Contact  *string             `json:"contact"`
	Location *string             `json:"location"`
	Items    json.RawMessage     `json:"items"`
	Total    *float64            `json:"total"`
	Status   *models.OrderStatus `json:"status"`
}

// AdminUpdateOrder edits order details and/or status. Detail edits are
// only allowed while the order is Pending; items changes reconcile
// stock (restore old, deduct new).
func AdminUpdateOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := inventory.EditOrder(config.DB, orderID, inventory.EditOrderFields{
		Fullname: req.Fullname,
		Contact:  req.Contact,
		Location: req.Location,
		Items:    req.Items,
		Total:    req.Total,
		Status:   req.Status,
	}, nil)
	if err != nil {
		orderErrorResponse(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order": order})
}

// AdminCancelOrder cancels any Pending order and restores its stock
func AdminCancelOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	if err := inventory.CancelOrder(config.DB, orderID, nil); err != nil {
		orderErrorResponse(c, err, "Failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully and stock restored", "order_id": orderID})
}

type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// AdminSetPaymentStatus records a manual payment status change
func AdminSetPaymentStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := inventory.SetPaymentStatus(config.DB, orderID, req.PaymentStatus)
	if err != nil {
		orderErrorResponse(c, err, "Failed to update payment status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated", "order": order})
}

// AdminGetAllUsers lists all registered users
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Order("created_at desc").Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}
