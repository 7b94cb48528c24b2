package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"canteen-api/config"
	"canteen-api/inventory"
	"canteen-api/middleware"
	"canteen-api/models"
	"canteen-api/statemachine"

	"github.com/gin-gonic/gin"
)

type PlaceOrderRequest struct {
	Fullname      string          `json:"fullname" binding:"required"`
	Contact       string          `json:"contact" binding:"required"`
	Location      string          `json:"location" binding:"required"`
	Items         json.RawMessage `json:"items" binding:"required"`
	Total         float64         `json:"total"`
	IDProof       string          `json:"id_proof"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
}

// PlaceOrder creates a new order and deducts stock for its items
func PlaceOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := inventory.PlaceOrder(config.DB, inventory.PlaceOrderInput{
		UserID:        &userID,
		Fullname:      req.Fullname,
		Contact:       req.Contact,
		Location:      req.Location,
		Items:         req.Items,
		Total:         req.Total,
		IDProof:       req.IDProof,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		orderErrorResponse(c, err, "Failed to place order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

// GetMyOrders returns all orders for the logged-in user
func GetMyOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order owned by the caller
func GetOrderDetail(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.UserID == nil || *order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels the caller's Pending order and restores stock
func CancelOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	if err := inventory.CancelOrder(config.DB, orderID, &userID); err != nil {
		orderErrorResponse(c, err, "Failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully and stock restored", "order_id": orderID})
}

func parseOrderID(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return 0, false
	}
	return uint(id64), true
}

// orderErrorResponse maps inventory errors onto HTTP responses
func orderErrorResponse(c *gin.Context, err error, fallback string) {
	var notPending *inventory.NotPendingError
	var validation *inventory.ValidationError
	var transition *inventory.InvalidTransitionError

	switch {
	case errors.Is(err, inventory.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, inventory.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
	case errors.Is(err, inventory.ErrNoFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
	case errors.As(err, &notPending):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Only orders with 'Pending' status can be modified",
			"current_status": notPending.Status,
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    transition.From,
			"requested":         transition.To,
			"reason":            transition.Reason,
			"valid_next_states": statemachine.ValidTransitionsFrom(transition.From),
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Reason})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
